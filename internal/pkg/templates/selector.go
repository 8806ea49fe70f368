package templates

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Yasin777-6/Avourist-v1/internal/domain/contract"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/logger"
)

// имена файлов шаблонов: тип представительства -> инстанция -> регион.
// Имена повторяют фактические файлы каталога, включая исторические
// опечатки в московских вариантах.
var templateFiles = map[string]map[string]map[string]string{
	contract.RepresentationWithoutPOA: {
		"1": {
			contract.RegionRegions: "Договор_без_представления_интересов_БЕЗ_ДОВЕРЕННОСТИ_на_1_инстанцию.doc",
			contract.RegionMoscow:  "Договор_без_представления_интересов_БЕЗ_ДОВЕРЕННСОСТИ_на_1_инстанцию.doc",
		},
		"2": {
			contract.RegionRegions: "Договор_без_представления_интересов_БЕЗ_ДОВЕРЕННОСТИ_на_2_инстанции (1).doc",
			contract.RegionMoscow:  "Договор_без_представления_интересов_БЕЗ_ДОВЕРЕННОСТИ_на_2_инстанции (2).doc",
		},
		"3": {
			contract.RegionRegions: "Договор_без_представления_интересов_БЕЗ_ДОВЕРЕННОСТИ_на_3_инстанции.doc",
			contract.RegionMoscow:  "Договор_без_представления_интересов_БЕЗ_ДОВЕРЕННОСТИ_на_3_инстанции (1).doc",
		},
		"4": {
			contract.RegionRegions: "Договор_без_представления_интересов_БЕЗ_ДОВЕРЕННОСТИ_на_4_инстанции.doc",
			contract.RegionMoscow:  "Договор_без_представления_интересов_БЕЗ_ДОВЕРЕННОСТИ_на_4_инстанции.doc",
		},
	},
	contract.RepresentationWithPOA: {
		"1": {
			contract.RegionRegions: "Договор_без_представления_интересов_ПО_ДОВЕРЕННОСТИ_на_1_инстанцию.doc",
			contract.RegionMoscow:  "Договор_без_представления_интересов_ПО_ДОВЕРЕННСОСТИ_на_1_инстанцию.doc",
		},
		"2": {
			contract.RegionRegions: "Договор_без_представления_интересов_ПО_ДОВЕРЕННОСТИ_на_2_инстанции.doc",
			contract.RegionMoscow:  "Договор_без_представления_интересов_ПО_ДОВЕРЕННОСТИ_на_2_инстанции (1).doc",
		},
		"3": {
			contract.RegionRegions: "Договор_без_представления_интересов_ПО_ДОВЕРЕННОСТИ_на_3_инстанции.doc",
			contract.RegionMoscow:  "Договор_без_представления_интересов_ПО_ДОВЕРЕННОСТИ_на_3_инстанции (1).doc",
		},
		"4": {
			contract.RegionRegions: "Договор_без_представления_интересов_ПО_ДОВЕРЕННОСТЬЮ_на_4_инстанции.doc",
			contract.RegionMoscow:  "Договор_без_представления_интересов_ПО_ДОВЕРЕННОСТЬЮ_на_4_инстанции.doc",
		},
	},
}

// Selector разрешает дескриптор шаблона в путь к файлу на диске
type Selector struct {
	dir string
}

// New создает селектор поверх каталога шаблонов
func New(dir string) *Selector {
	return &Selector{dir: dir}
}

// Select возвращает путь к файлу шаблона для дескриптора.
// Для MOSCOW без московского файла выполняется откат на REGIONS.
// Отсутствие файла после отката — жесткая ошибка: отправить
// неправильный юридический документ хуже, чем не отправить никакой.
func (s *Selector) Select(desc contract.TemplateDescriptor) (string, error) {
	byInstance, ok := templateFiles[desc.Representation]
	if !ok {
		return "", fmt.Errorf("%w: representation=%s", contract.ErrTemplateNotFound, desc.Representation)
	}
	byRegion, ok := byInstance[desc.Instance]
	if !ok {
		return "", fmt.Errorf("%w: instance=%s", contract.ErrTemplateNotFound, desc.Instance)
	}

	if name, ok := byRegion[desc.Region]; ok {
		path := filepath.Join(s.dir, name)
		if fileExists(path) {
			return path, nil
		}
		logger.Warn("template file missing on disk",
			logger.Field("path", path),
			logger.Field("region", desc.Region),
		)
	}

	if desc.Region == contract.RegionMoscow {
		if name, ok := byRegion[contract.RegionRegions]; ok {
			path := filepath.Join(s.dir, name)
			if fileExists(path) {
				logger.Info("falling back to regions template",
					logger.Field("instance", desc.Instance),
					logger.Field("representation", desc.Representation),
				)
				return path, nil
			}
		}
	}

	return "", fmt.Errorf("%w: representation=%s instance=%s region=%s",
		contract.ErrTemplateNotFound, desc.Representation, desc.Instance, desc.Region)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
