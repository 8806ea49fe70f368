package petition

import "strings"

// lineKind тип строки ходатайства, определяет выравнивание и шрифт
type lineKind int

const (
	lineTitle lineKind = iota
	lineCourt
	lineFrom
	lineAddress
	lineRequest
	lineSignature
	lineAttachment
	lineBody
)

// classifyLine определяет тип строки по служебным меткам,
// принятым в русских процессуальных документах
func classifyLine(line string) lineKind {
	upper := strings.ToUpper(line)
	lower := strings.ToLower(line)

	switch {
	case strings.Contains(upper, "ХОДАТАЙСТВО") && len([]rune(line)) < 50:
		return lineTitle
	case strings.HasPrefix(line, "В ") && strings.Contains(lower, "суд"):
		return lineCourt
	case strings.HasPrefix(line, "От:") || strings.HasPrefix(line, "от "):
		return lineFrom
	case strings.HasPrefix(lower, "адрес:"):
		return lineAddress
	case strings.HasPrefix(line, "ПРОШУ:"):
		return lineRequest
	case strings.HasPrefix(line, "Дата:") || strings.HasPrefix(line, "Подпись:"):
		return lineSignature
	case strings.HasPrefix(line, "Приложение:"):
		return lineAttachment
	default:
		return lineBody
	}
}
