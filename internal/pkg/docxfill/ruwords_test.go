package docxfill

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmountInWords(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "ноль"},
		{5, "пять"},
		{11, "одиннадцать"},
		{21, "двадцать один"},
		{100, "сто"},
		{1000, "одна тысяча"},
		{2000, "две тысячи"},
		{5000, "пять тысяч"},
		{10000, "десять тысяч"},
		{15000, "пятнадцать тысяч"},
		{21000, "двадцать одна тысяча"},
		{25000, "двадцать пять тысяч"},
		{53000, "пятьдесят три тысячи"},
		{120000, "сто двадцать тысяч"},
		{150000, "сто пятьдесят тысяч"},
		{1500000, "один миллион пятьсот тысяч"},
		{2000000, "два миллиона"},
		{30500, "тридцать тысяч пятьсот"},
		{111111, "сто одиннадцать тысяч сто одиннадцать"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, AmountInWords(tt.amount))
		})
	}
}

func TestAmountInWordsOutOfRange(t *testing.T) {
	// пропись недоступна, деградация до цифр
	assert.Equal(t, "-1", AmountInWords(-1))
	assert.Equal(t, "1000000000", AmountInWords(1_000_000_000))
}

func TestLegalAmount(t *testing.T) {
	assert.Equal(t, "15 000 (пятнадцать тысяч) рублей", legalAmount(15000))
	assert.Equal(t, "120 000 (сто двадцать тысяч) рублей", legalAmount(120000))
}
