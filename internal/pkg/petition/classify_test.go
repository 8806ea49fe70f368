package petition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want lineKind
	}{
		{"title", "ХОДАТАЙСТВО", lineTitle},
		{"title mixed case", "Ходатайство о переносе заседания", lineTitle},
		{"long line with title word is body", "В соответствии с поданным ранее ходатайством прошу учесть, что ХОДАТАЙСТВО было направлено в установленный срок", lineBody},
		{"court header", "В Тверской районный суд города Москвы", lineCourt},
		{"from header", "От: Иванова Ивана Ивановича", lineFrom},
		{"address header", "адрес: г. Москва, ул. Тестовая 1", lineAddress},
		{"request section", "ПРОШУ: перенести судебное заседание", lineRequest},
		{"date line", "Дата: 27.08.2026", lineSignature},
		{"signature line", "Подпись: _________", lineSignature},
		{"attachment", "Приложение: копия постановления", lineAttachment},
		{"plain body", "Постановлением мирового судьи от 01.08.2026 я привлечен к ответственности.", lineBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyLine(tt.line))
		})
	}
}

func TestBuildFilename(t *testing.T) {
	now := time.Date(2026, 8, 27, 15, 4, 5, 0, time.UTC)

	assert.Equal(t, "Ходатайство_Иванов Иван_20260827_150405.docx", buildFilename("Иванов Иван", now))
	assert.Equal(t, "Ходатайство_20260827_150405.docx", buildFilename("", now))
	// небезопасные символы отбрасываются
	assert.Equal(t, "Ходатайство_Иванов_20260827_150405.docx", buildFilename("Иванов/../", now))
}
