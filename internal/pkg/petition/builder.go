package petition

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/measurement"
	"github.com/unidoc/unioffice/schema/soo/wml"

	"github.com/Yasin777-6/Avourist-v1/internal/pkg/logger"
)

var (
	reHTMLTag    = regexp.MustCompile(`<[^>]+>`)
	reSeparators = regexp.MustCompile(`─+`)
)

// Builder собирает ходатайство в DOCX из размеченного текста.
// Текст приходит из разговорного слоя строками, тип каждой строки
// распознается по служебным меткам.
type Builder struct {
	outDir string
}

// NewBuilder создает построитель с каталогом для готовых файлов
func NewBuilder(outDir string) *Builder {
	return &Builder{outDir: outDir}
}

// Generate собирает документ и возвращает путь к файлу
func (b *Builder) Generate(petitionText, clientName string) (string, error) {
	text := reHTMLTag.ReplaceAllString(petitionText, "")
	text = reSeparators.ReplaceAllString(text, "")

	doc := document.New()
	defer doc.Close()

	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		appendLine(doc, line)
	}

	if err := os.MkdirAll(b.outDir, 0o755); err != nil {
		return "", fmt.Errorf("create petition dir: %w", err)
	}

	path := filepath.Join(b.outDir, buildFilename(clientName, time.Now()))
	if err := doc.SaveToFile(path); err != nil {
		return "", fmt.Errorf("save petition: %w", err)
	}

	logger.Info("petition document generated",
		logger.Field("path", path),
	)
	return path, nil
}

func appendLine(doc *document.Document, line string) {
	p := doc.AddParagraph()
	run := p.AddRun()
	run.AddText(line)

	switch classifyLine(line) {
	case lineTitle:
		p.Properties().SetAlignment(wml.ST_JcCenter)
		run.Properties().SetBold(true)
		run.Properties().SetSize(14 * measurement.Point)
	case lineCourt, lineFrom, lineAddress:
		p.Properties().SetAlignment(wml.ST_JcRight)
		run.Properties().SetSize(12 * measurement.Point)
	case lineRequest:
		run.Properties().SetBold(true)
		run.Properties().SetSize(12 * measurement.Point)
	case lineSignature:
		run.Properties().SetSize(12 * measurement.Point)
	case lineAttachment:
		run.Properties().SetSize(11 * measurement.Point)
	default:
		p.Properties().SetAlignment(wml.ST_JcBoth)
		run.Properties().SetSize(12 * measurement.Point)
	}
}

// buildFilename собирает имя файла с меткой времени; небезопасные
// символы имени клиента отбрасываются
func buildFilename(clientName string, now time.Time) string {
	timestamp := now.Format("20060102_150405")
	safe := sanitizeName(clientName)
	if safe == "" {
		return fmt.Sprintf("Ходатайство_%s.docx", timestamp)
	}
	return fmt.Sprintf("Ходатайство_%s_%s.docx", safe, timestamp)
}

func sanitizeName(name string) string {
	var sb strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '_' {
			sb.WriteRune(r)
		}
	}
	return strings.TrimSpace(sb.String())
}
