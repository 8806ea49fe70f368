package docxfill

import (
	"fmt"
	"strings"
)

// прописи для сумм договора

var ruUnits = []string{"", "один", "два", "три", "четыре", "пять", "шесть", "семь", "восемь", "девять"}

// тысячи склоняются в женском роде
var ruUnitsFem = []string{"", "одна", "две", "три", "четыре", "пять", "шесть", "семь", "восемь", "девять"}

var ruTeens = []string{
	"десять", "одиннадцать", "двенадцать", "тринадцать", "четырнадцать",
	"пятнадцать", "шестнадцать", "семнадцать", "восемнадцать", "девятнадцать",
}

var ruTens = []string{
	"", "", "двадцать", "тридцать", "сорок", "пятьдесят",
	"шестьдесят", "семьдесят", "восемьдесят", "девяносто",
}

var ruHundreds = []string{
	"", "сто", "двести", "триста", "четыреста", "пятьсот",
	"шестьсот", "семьсот", "восемьсот", "девятьсот",
}

// AmountInWords переводит сумму в пропись строчными буквами,
// например 15000 -> "пятнадцать тысяч". Суммы вне поддерживаемого
// диапазона возвращаются цифрами, чтение прописи не должно ронять
// генерацию договора.
func AmountInWords(amount int64) string {
	if amount < 0 || amount >= 1_000_000_000 {
		return fmt.Sprintf("%d", amount)
	}
	if amount == 0 {
		return "ноль"
	}

	var parts []string

	millions := amount / 1_000_000
	thousands := (amount % 1_000_000) / 1000
	rest := amount % 1000

	if millions > 0 {
		parts = append(parts, tripletInWords(millions, false))
		parts = append(parts, pluralForm(millions, "миллион", "миллиона", "миллионов"))
	}
	if thousands > 0 {
		parts = append(parts, tripletInWords(thousands, true))
		parts = append(parts, pluralForm(thousands, "тысяча", "тысячи", "тысяч"))
	}
	if rest > 0 {
		parts = append(parts, tripletInWords(rest, false))
	}

	return strings.Join(parts, " ")
}

func tripletInWords(n int64, feminine bool) string {
	units := ruUnits
	if feminine {
		units = ruUnitsFem
	}

	var words []string
	if h := n / 100; h > 0 {
		words = append(words, ruHundreds[h])
	}

	tail := n % 100
	switch {
	case tail >= 10 && tail < 20:
		words = append(words, ruTeens[tail-10])
	default:
		if t := tail / 10; t >= 2 {
			words = append(words, ruTens[t])
		}
		if u := tail % 10; u > 0 {
			words = append(words, units[u])
		}
	}

	return strings.Join(words, " ")
}

func pluralForm(n int64, one, few, many string) string {
	mod100 := n % 100
	if mod100 >= 11 && mod100 <= 14 {
		return many
	}
	switch n % 10 {
	case 1:
		return one
	case 2, 3, 4:
		return few
	default:
		return many
	}
}
