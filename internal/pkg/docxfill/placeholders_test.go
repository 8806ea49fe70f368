package docxfill

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Yasin777-6/Avourist-v1/internal/domain/contract"
)

func applyRules(text string, rules []rule) string {
	for _, r := range rules {
		text, _ = r.apply(text)
	}
	return text
}

func sampleRecord() contract.FieldRecord {
	return contract.FieldRecord{
		ContractNumber: "AV-20260827-ABCD1234",
		ContractDate:   "27.08.2026",
		ClientFullName: "Иванов Иван Иванович",
		BirthDate:      "01.01.1990",
		BirthPlace:     "г. Казань",
		PassportSeries: "4510",
		PassportNumber: "123456",
		Address:        "г. Москва, ул. Тестовая 1",
		Phone:          "+79001234567",
		Email:          "test@example.com",
		CaseArticle:    "ч.2 ст. 12.8 КоАП РФ",
		DirectorName:   "Шельмина Евгения Васильевича",
		Pricing: contract.Pricing{
			TotalAmount: 30000,
			Prepayment:  15000,
			SuccessFee:  15000,
			DocsPrepFee: 5000,
		},
	}
}

func TestRulesStructuralBlanks(t *testing.T) {
	rules := buildRules(sampleRecord())

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"passport blank",
			"Паспорт Серия_____ Номер___________",
			"Паспорт Серия 4510 Номер 123456",
		},
		{
			"passport blank with extra spaces",
			"Паспорт Серия_____  Номер__________",
			"Паспорт Серия 4510 Номер 123456",
		},
		{
			"address blank",
			"Зарегистрирован: _____________________",
			"Зарегистрирован: г. Москва, ул. Тестовая 1",
		},
		{
			"phone blank",
			"Тел. _________________________",
			"Тел. +79001234567",
		},
		{
			"email blank",
			"Е-mail______________________________",
			"Е-mail: test@example.com",
		},
		{
			"contract number blank",
			"Договор № ____________",
			"Договор № AV-20260827-ABCD1234",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, applyRules(tt.in, rules))
		})
	}
}

func TestRulesLiterals(t *testing.T) {
	rules := buildRules(sampleRecord())

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"sample client name",
			"Заказчик: Тытюк Александр Михайлович",
			"Заказчик: Иванов Иван Иванович",
		},
		{
			"total amount sample",
			"составляет 25 000 (двадцать пять тысяч) рублей",
			"составляет 30 000 (тридцать тысяч) рублей",
		},
		{
			"prepayment sample",
			"предоплата 15 000 (пятнадцать тысяч) рублей",
			"предоплата 15 000 (пятнадцать тысяч) рублей",
		},
		{
			"prepayment underscores",
			"вносит ____________ (_________ тысяч) рублей",
			"вносит 15 000 (пятнадцать тысяч) рублей",
		},
		{
			"success fee underscores",
			"доплачивает __________________ (___________ тысяч) рублей",
			"доплачивает 15 000 (пятнадцать тысяч) рублей",
		},
		{
			"docs fee underscores",
			"подготовка документов ______(___________ тысяч) рублей",
			"подготовка документов 5 000 (пять тысяч) рублей",
		},
		{
			"article literal",
			"по делу по ч.1 ст.12.8 КоАП РФ",
			"по делу по ч.2 ст. 12.8 КоАП РФ",
		},
		{
			"contract number literal",
			"Договор № 1-Б/24",
			"Договор № AV-20260827-ABCD1234",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, applyRules(tt.in, rules))
		})
	}
}

func TestRulesPaymentTerms(t *testing.T) {
	rec := sampleRecord()
	rec.Pricing.PaymentTerms = "25% предоплата, 75% после положительного решения"
	rules := buildRules(rec)

	assert.Equal(t,
		"25% предоплата, 75% после положительного решения",
		applyRules("__% предоплата, __% после положительного решения", rules))
	assert.Equal(t,
		"25% предоплата, 75% после положительного решения",
		applyRules("50% предоплата, 50% после положительного решения", rules))
}

func TestRulesSkipEmptyFields(t *testing.T) {
	rules := buildRules(contract.FieldRecord{})

	// пустая запись не трогает пропуски
	in := "Паспорт Серия_____ Номер___________"
	assert.Equal(t, in, applyRules(in, rules))
}

// Каждое обязательное поле записи имеет хотя бы одно правило,
// срабатывающее на тексте поставляемого шаблона.
func TestRulesCoverShippedTemplateText(t *testing.T) {
	templateText := `Договор № 1-Б/24
г. Москва28 апреля 2024 г
Заказчик: Тытюк Александр Михайлович
Дата/ месяц/ год рождения
Место рождения
Паспорт Серия_____ Номер___________
Зарегистрирован: _____________________
Тел. _________________________
Е-mail______________________________
Стоимость услуг составляет 25 000 (двадцать пять тысяч) рублей
Предоплата ____________ (_________ тысяч) рублей
Доплата __________________ (___________ тысяч) рублей
Подготовка документов ______(___________ тысяч) рублей
по делу об административном правонарушении по ч.1 ст.12.8 КоАП РФ
50% предоплата, 50% после положительного решения
Директор: Шельмина Евгения Васильевича`

	rec := sampleRecord()
	rec.Pricing.PaymentTerms = "50% предоплата, 50% после положительного решения"
	out := templateText
	matched := 0
	for _, r := range buildRules(rec) {
		var ok bool
		out, ok = r.apply(out)
		if ok {
			matched++
		}
	}

	assert.Greater(t, matched, 10)
	assert.Contains(t, out, "Иванов Иван Иванович")
	assert.Contains(t, out, "Серия 4510 Номер 123456")
	assert.Contains(t, out, "Зарегистрирован: г. Москва, ул. Тестовая 1")
	assert.Contains(t, out, "Тел. +79001234567")
	assert.Contains(t, out, "Е-mail: test@example.com")
	assert.Contains(t, out, "30 000 (тридцать тысяч) рублей")
	assert.Contains(t, out, "AV-20260827-ABCD1234")
	assert.NotContains(t, out, "Тытюк")
}
