package docxfill

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/unidoc/unioffice/common/license"
	"github.com/unidoc/unioffice/document"

	"github.com/Yasin777-6/Avourist-v1/internal/domain/contract"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/logger"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/metrics"
)

func init() {
	licenseKey := os.Getenv("UNIDOC_LICENSE_API_KEY")
	if licenseKey == "" {
		// для локальной разработки ключ может лежать в файле
		possiblePaths := []string{
			".unidoc.key",
			"../../../.unidoc.key",
		}
		for _, path := range possiblePaths {
			data, err := os.ReadFile(path)
			if err == nil {
				licenseKey = strings.TrimSpace(string(data))
				break
			}
		}
	}

	if licenseKey == "" {
		fmt.Println("Warning: UniDoc license key not found. Some features may be limited.")
		return
	}

	if err := license.SetMeteredKey(licenseKey); err != nil {
		fmt.Printf("Warning: Error loading UniDoc license: %v\n", err)
	}
}

// Output результат заполнения шаблона
type Output struct {
	Bytes            []byte
	ReplacementCount int
	Warnings         []string
}

// Filler заполняет DOCX-шаблоны значениями записи полей.
// Замены выполняются на уровне абзаца с сохранением форматирования
// первого рана.
type Filler struct{}

// New создает заполнитель DOCX
func New() *Filler {
	return &Filler{}
}

// Fill открывает шаблон, выполняет замены в абзацах тела и ячейках
// таблиц, сохраняет результат в outputPath и возвращает байты.
// Нулевое число замен не является ошибкой: некоторые шаблоны не
// содержат пропусков, но счетчик отдается вызывающей стороне.
func (f *Filler) Fill(templatePath string, record contract.FieldRecord, outputPath string) (*Output, error) {
	if _, err := os.Stat(templatePath); err != nil {
		return nil, fmt.Errorf("%w: %s", contract.ErrTemplateNotFound, templatePath)
	}

	doc, err := document.Open(templatePath)
	if err != nil {
		return nil, fmt.Errorf("open template %s: %w", filepath.Base(templatePath), err)
	}
	defer doc.Close()

	rules := buildRules(record)
	templateName := filepath.Base(templatePath)

	count := 0
	for _, p := range doc.Paragraphs() {
		if replaceInParagraph(p, rules) {
			count++
		}
	}

	// пропуск внутри ячейки таблицы равноправная цель замены
	for _, tbl := range doc.Tables() {
		for _, row := range tbl.Rows() {
			for _, cell := range row.Cells() {
				for _, p := range cell.Paragraphs() {
					if replaceInParagraph(p, rules) {
						count++
					}
				}
			}
		}
	}

	var warnings []string
	if count == 0 {
		warnings = append(warnings, "в шаблоне не найдено ни одного пропуска")
		metrics.PlaceholderMismatchTotal.Inc()
		logger.Warn("no placeholders matched in template",
			logger.Field("template", templateName),
		)
	}
	metrics.PlaceholderReplacements.WithLabelValues(templateName).Observe(float64(count))

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	if err := doc.SaveToFile(outputPath); err != nil {
		return nil, fmt.Errorf("save filled document: %w", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, fmt.Errorf("read filled document: %w", err)
	}

	logger.Info("template filled",
		logger.Field("template", templateName),
		logger.Field("output", filepath.Base(outputPath)),
	)

	return &Output{
		Bytes:            data,
		ReplacementCount: count,
		Warnings:         warnings,
	}, nil
}

// replaceInParagraph применяет правила к полному тексту абзаца.
// Измененный текст пишется в первый ран, остальные очищаются, чтобы
// сохранить шрифт и начертание исходного текста.
func replaceInParagraph(p document.Paragraph, rules []rule) bool {
	runs := p.Runs()

	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.Text())
	}
	original := sb.String()
	if original == "" {
		return false
	}

	text := original
	for _, rule := range rules {
		text, _ = rule.apply(text)
	}
	if text == original {
		return false
	}

	for i, r := range runs {
		r.ClearContent()
		if i == 0 {
			r.AddText(text)
		}
	}
	if len(runs) == 0 {
		p.AddRun().AddText(text)
	}
	return true
}
