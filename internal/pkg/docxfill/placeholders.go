package docxfill

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Yasin777-6/Avourist-v1/internal/domain/contract"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/pricing"
)

// rule одно правило замены: структурный шаблон по меткам и прочеркам
// либо точная строка из текста поставляемого шаблона
type rule struct {
	pattern *regexp.Regexp
	literal string
	replace string
}

func (r rule) apply(text string) (string, bool) {
	if r.pattern != nil {
		if !r.pattern.MatchString(text) {
			return text, false
		}
		return r.pattern.ReplaceAllString(text, r.replace), true
	}
	if !strings.Contains(text, r.literal) {
		return text, false
	}
	return strings.ReplaceAll(text, r.literal, r.replace), true
}

// структурные шаблоны: метка плюс прочерк из трех и более подчеркиваний,
// устойчивы к правкам количества подчеркиваний в шаблоне
var (
	rePassportBlank = regexp.MustCompile(`Серия\s*_{3,}\s*Номер\s*_{3,}`)
	reAddressBlank  = regexp.MustCompile(`Зарегистрирован:\s*_{3,}`)
	rePhoneBlank    = regexp.MustCompile(`Тел\.\s*_{3,}`)
	reEmailBlank    = regexp.MustCompile(`[EЕ]-mail\s*_{3,}`)
	reBirthDateLbl  = regexp.MustCompile(`Дата/\s*месяц/\s*год рождения:?\s*_*`)
	reBirthPlaceLbl = regexp.MustCompile(`Место рождения:?\s*_*`)
	reNumberBlank   = regexp.MustCompile(`Договор\s*№\s*_{3,}`)
	reTermsBlank    = regexp.MustCompile(`_{2,}%\s*предоплата,\s*_{2,}%\s*после положительного решения`)
)

// legalAmount каноничный юридический формат суммы:
// "15 000 (пятнадцать тысяч) рублей"
func legalAmount(amount int64) string {
	return fmt.Sprintf("%s (%s) рублей", pricing.FormatAmount(amount), AmountInWords(amount))
}

// buildRules собирает правила замены для записи. Порядок фиксирован:
// структурные шаблоны первыми, литеральные значения из текста
// поставляемых шаблонов договора добивают оставшиеся позиции.
func buildRules(r contract.FieldRecord) []rule {
	var rules []rule

	if r.ContractNumber != "" {
		rules = append(rules,
			rule{pattern: reNumberBlank, replace: "Договор № " + r.ContractNumber},
			rule{literal: "Договор № 1-Б/24", replace: "Договор № " + r.ContractNumber},
			rule{literal: "№ 1-Б/24", replace: "№ " + r.ContractNumber},
		)
	}

	if r.ContractDate != "" {
		rules = append(rules,
			rule{literal: "г. Москва28 апреля 2024 г", replace: "г. Москва " + r.ContractDate},
			rule{literal: "28 апреля 2024 г", replace: r.ContractDate},
		)
	}

	if r.ClientFullName != "" {
		rules = append(rules,
			rule{literal: "Тытюк  Александр  Михайлович", replace: r.ClientFullName},
			rule{literal: "Тытюк Александр Михайлович", replace: r.ClientFullName},
		)
	}

	if r.DirectorName != "" {
		rules = append(rules, rule{literal: "Шельмина Евгения Васильевича", replace: r.DirectorName})
	}

	if r.Pricing.TotalAmount > 0 {
		total := legalAmount(r.Pricing.TotalAmount)
		rules = append(rules,
			rule{literal: "_________(______________) рублей", replace: total},
			rule{literal: "_________(______________)  рублей", replace: total},
			rule{literal: "25 000 (двадцать пять тысяч) рублей", replace: total},
		)
	}
	if r.Pricing.Prepayment > 0 {
		prepay := legalAmount(r.Pricing.Prepayment)
		rules = append(rules,
			rule{literal: "____________ (_________ тысяч)рублей", replace: prepay},
			rule{literal: "____________ (_________ тысяч) рублей", replace: prepay},
			rule{literal: "15 000 (пятнадцать тысяч) рублей", replace: prepay},
		)
	}
	if r.Pricing.SuccessFee > 0 {
		fee := legalAmount(r.Pricing.SuccessFee)
		rules = append(rules,
			rule{literal: "__________________ (___________ тысяч) рублей", replace: fee},
			rule{literal: "__________________(___________ тысяч) рублей", replace: fee},
			rule{literal: "10 000 (десять тысяч) рублей", replace: fee},
		)
	}
	if r.Pricing.DocsPrepFee > 0 {
		docs := legalAmount(r.Pricing.DocsPrepFee)
		rules = append(rules, rule{literal: "______(___________ тысяч) рублей", replace: docs})
	}

	if r.BirthDate != "" {
		rules = append(rules, rule{pattern: reBirthDateLbl, replace: "Дата/ месяц/ год рождения: " + r.BirthDate})
	}
	if r.BirthPlace != "" {
		rules = append(rules, rule{pattern: reBirthPlaceLbl, replace: "Место рождения: " + r.BirthPlace})
	}

	if r.PassportSeries != "" && r.PassportNumber != "" {
		rules = append(rules, rule{
			pattern: rePassportBlank,
			replace: fmt.Sprintf("Серия %s Номер %s", r.PassportSeries, r.PassportNumber),
		})
	}

	if r.Address != "" {
		rules = append(rules, rule{pattern: reAddressBlank, replace: "Зарегистрирован: " + r.Address})
	}
	if r.Phone != "" {
		rules = append(rules, rule{pattern: rePhoneBlank, replace: "Тел. " + r.Phone})
	}
	if r.Email != "" {
		rules = append(rules, rule{pattern: reEmailBlank, replace: "Е-mail: " + r.Email})
	}

	if r.CaseArticle != "" {
		rules = append(rules,
			rule{literal: "ч.1 ст.12.8 КоАП РФ", replace: r.CaseArticle},
			rule{literal: "ч.1 ст.12.8 КоАП", replace: r.CaseArticle},
		)
	}

	if r.Pricing.PaymentTerms != "" {
		rules = append(rules,
			rule{pattern: reTermsBlank, replace: r.Pricing.PaymentTerms},
			rule{literal: "50% предоплата, 50% после положительного решения", replace: r.Pricing.PaymentTerms},
		)
	}

	return rules
}
