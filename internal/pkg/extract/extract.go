package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Yasin777-6/Avourist-v1/internal/domain/contract"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/logger"
)

// DefaultDirectorName подставляется в договор, если не задан явно
const DefaultDirectorName = "Шельмина Евгения Васильевича"

// Known данные о клиенте, известные до разбора текста.
// Используются как fallback для незаполненных полей.
type Known struct {
	FirstName       string
	LastName        string
	Phone           string
	Email           string
	CaseType        string
	CaseDescription string
}

// LeadUpdates поля, впервые обнаруженные при разборе: вызывающая
// сторона записывает их обратно в карточку клиента
type LeadUpdates struct {
	Phone string
	Email string
}

// Result запись полей договора вместе с нефатальными предупреждениями
type Result struct {
	Record   contract.FieldRecord
	Updates  LeadUpdates
	Warnings []string
}

var (
	rePhoneLabeled  = regexp.MustCompile(`(?i)(?:телефон|тел\.?|номер)[:\s-]*((?:\+?7|8)[\s-]?\d[\d\s-]{8,})`)
	rePhoneBare     = regexp.MustCompile(`((?:\+?7|8)[\s-]?\d{3}[\s-]?\d{3}[\s-]?\d{2}[\s-]?\d{2})`)
	reSpaces        = regexp.MustCompile(`\s+`)
	rePassport      = regexp.MustCompile(`(?i)серия\s*(\d{4,6})[\s-]*(?:номер\s*)?(\d{4,6})`)
	rePassportRev   = regexp.MustCompile(`(?i)номер\s*(?:паспорта\s*)?(\d{4,6})[\s-]*(?:серия\s*)?(\d{4,6})`)
	reBirthDate     = regexp.MustCompile(`(\d{2}[./]\d{2}[./]\d{4})`)
	reBirthPlace    = regexp.MustCompile(`(?i)(?:место рождения|родился)[:\s-]*(г\.\s*[^\n,;]+|[А-ЯЁ][а-яё]+)`)
	reAddress       = regexp.MustCompile(`(?i)адрес[:\s-]*([^\n]+)`)
	reMoscowAddress = regexp.MustCompile(`(?i)(г\.\s*Москва[^\n,;]*)`)
	reFullName      = regexp.MustCompile(`([А-ЯЁA-Z][а-яёa-z]+\s+[А-ЯЁA-Z][а-яёa-z]+\s+[А-ЯЁA-Z][а-яёa-z]+)`)
	reEmail         = regexp.MustCompile(`([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`)
	reInstance      = regexp.MustCompile(`(?i)(?:инстанция|inst)[:\s-]*(\d)`)
	rePaymentSplit  = regexp.MustCompile(`(?i)(\d+)%\s*(?:сейчас|предоплата)[,\s]+(\d+)%\s*(?:после|успех)`)
	reArticle       = regexp.MustCompile(`(?i)(?:ч\.\s*(\d+)\s+)?ст\.\s*(\d+\.?\d*)\s*КоАП`)
)

// статья КоАП по типу дела, когда текст статьи не назван явно
var caseArticleByType = map[string]string{
	"DUI":                "ч.1 ст. 12.8 КоАП РФ",
	"SPEEDING":           "ст. 12.9 КоАП РФ",
	"LICENSE_SUSPENSION": "ст. 12.7 КоАП РФ",
	"ACCIDENT":           "ст. 12.27 КоАП РФ",
	"PARKING":            "ст. 12.19 КоАП РФ",
	"OTHER":              "КоАП РФ",
}

// Parse разбирает входной текст в запись полей договора.
// Наличие символа "|" включает структурированный режим с девятью
// позиционными полями; иначе применяется свободный разбор.
// Свободный разбор никогда не возвращает ошибку: незаполненные поля
// остаются пустыми и перечисляются в предупреждениях.
func Parse(input string, known Known) (*Result, error) {
	if strings.Contains(input, "|") {
		return parseStructured(input, known)
	}
	return parseFreeText(input, known), nil
}

// parseStructured разбирает строку из девяти полей, разделенных "|":
// ФИО | дата рождения | паспорт | адрес | телефон | email | статья |
// инстанция | тип представительства.
func parseStructured(input string, known Known) (*Result, error) {
	parts := strings.Split(input, "|")
	if len(parts) < 9 {
		return nil, fmt.Errorf("structured input has %d of 9 fields: %w", len(parts), contract.ErrEmptyInput)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	res := &Result{Record: defaultRecord(known)}

	if parts[0] != "" {
		res.Record.ClientFullName = parts[0]
	}
	res.Record.BirthDate = strings.ReplaceAll(parts[1], "/", ".")
	extractPassport(parts[2], res)
	res.Record.Address = parts[3]
	if parts[4] != "" {
		res.Record.Phone = normalizePhone(parts[4])
	}
	if parts[5] != "" {
		res.Record.Email = parts[5]
	}
	if parts[6] != "" {
		res.Record.CaseArticle = parts[6]
	}
	if parts[7] != "" {
		res.Record.Instance = parts[7]
	}
	switch strings.ToUpper(parts[8]) {
	case "WITH_POA", "ПО_ДОВЕРЕННОСТИ":
		res.Record.Representation = contract.RepresentationWithPOA
	case "WITHOUT_POA", "БЕЗ_ДОВЕРЕННОСТИ":
		res.Record.Representation = contract.RepresentationWithoutPOA
	}

	finishRecord(res, input, known)
	return res, nil
}

// parseFreeText применяет упорядоченную батарею регулярных выражений.
// При конкуренции шаблонов за один фрагмент побеждает первый по
// порядку, без дополнительного скоринга.
func parseFreeText(input string, known Known) *Result {
	res := &Result{Record: defaultRecord(known)}

	if m := rePhoneLabeled.FindStringSubmatch(input); m != nil {
		res.Record.Phone = normalizePhone(m[1])
	} else if m := rePhoneBare.FindStringSubmatch(input); m != nil {
		res.Record.Phone = normalizePhone(m[1])
	}

	extractPassport(input, res)

	if m := reBirthDate.FindStringSubmatch(input); m != nil {
		res.Record.BirthDate = strings.ReplaceAll(m[1], "/", ".")
	}
	if m := reBirthPlace.FindStringSubmatch(input); m != nil {
		res.Record.BirthPlace = strings.TrimSpace(m[1])
	}

	if m := reAddress.FindStringSubmatch(input); m != nil {
		res.Record.Address = strings.TrimSpace(m[1])
	} else if m := reMoscowAddress.FindStringSubmatch(input); m != nil {
		res.Record.Address = strings.TrimSpace(m[1])
	}

	if m := reFullName.FindStringSubmatch(input); m != nil {
		res.Record.ClientFullName = strings.TrimSpace(m[1])
	}
	if m := reEmail.FindStringSubmatch(input); m != nil {
		res.Record.Email = strings.TrimSpace(m[1])
	}

	if m := reInstance.FindStringSubmatch(input); m != nil {
		res.Record.Instance = m[1]
	} else {
		lower := strings.ToLower(input)
		switch {
		case strings.Contains(lower, "апелляци"):
			res.Record.Instance = "2"
		case strings.Contains(lower, "кассаци"):
			res.Record.Instance = "3"
		case strings.Contains(lower, "надзор"):
			res.Record.Instance = "4"
		}
	}

	extractRepresentation(input, res)

	if m := rePaymentSplit.FindStringSubmatch(input); m != nil {
		prepay, _ := strconv.Atoi(m[1])
		success, _ := strconv.Atoi(m[2])
		res.Record.Pricing.PrepaymentPercent = prepay
		res.Record.Pricing.SuccessFeePercent = success
		res.Record.Pricing.PaymentTerms = fmt.Sprintf("%s%% предоплата, %s%% после положительного решения", m[1], m[2])
	}

	finishRecord(res, input, known)
	return res
}

// defaultRecord заполняет запись известными данными клиента
func defaultRecord(known Known) contract.FieldRecord {
	fullName := strings.TrimSpace(strings.TrimSpace(known.FirstName) + " " + strings.TrimSpace(known.LastName))
	if fullName == "" {
		fullName = "Клиент"
	}
	return contract.FieldRecord{
		ClientFullName:  fullName,
		Email:           known.Email,
		CaseDescription: strings.TrimSpace(known.CaseDescription),
		ContractDate:    time.Now().Format("02.01.2006"),
		Instance:        "1",
		Representation:  contract.RepresentationWithoutPOA,
		DirectorName:    DefaultDirectorName,
	}
}

// extractPassport ищет серию и номер паспорта в обоих порядках следования.
// Когда обе группы цифр одной длины, серию от номера отличить нельзя:
// поля остаются пустыми и добавляется предупреждение для оператора.
func extractPassport(input string, res *Result) {
	m := rePassport.FindStringSubmatch(input)
	if m == nil {
		m = rePassportRev.FindStringSubmatch(input)
	}
	if m == nil {
		return
	}

	first, second := m[1], m[2]
	switch {
	case len(first) == 4 && len(second) == 6:
		res.Record.PassportSeries = first
		res.Record.PassportNumber = second
	case len(first) == 6 && len(second) == 4:
		res.Record.PassportSeries = second
		res.Record.PassportNumber = first
	default:
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("паспортные данные неоднозначны (%s / %s), требуется подтверждение", first, second))
		logger.Warn("ambiguous passport tokens",
			logger.Field("first_len", strconv.Itoa(len(first))),
			logger.Field("second_len", strconv.Itoa(len(second))),
		)
	}
}

func extractRepresentation(input string, res *Result) {
	lower := strings.ToLower(input)
	if regexp.MustCompile(`(?:по|с)\s*доверенност`).MatchString(lower) {
		res.Record.Representation = contract.RepresentationWithPOA
	} else if regexp.MustCompile(`без\s*доверенност`).MatchString(lower) {
		res.Record.Representation = contract.RepresentationWithoutPOA
	}

	upper := strings.ToUpper(input)
	if strings.Contains(upper, "ПО_ДОВЕРЕННОСТИ") {
		res.Record.Representation = contract.RepresentationWithPOA
	} else if strings.Contains(upper, "БЕЗ_ДОВЕРЕННОСТИ") {
		res.Record.Representation = contract.RepresentationWithoutPOA
	}
}

// finishRecord добивает статью, описание дела, предупреждения и
// сквозную запись новых контактов клиента
func finishRecord(res *Result, input string, known Known) {
	if res.Record.CaseArticle == "" {
		if m := reArticle.FindStringSubmatch(input); m != nil {
			if m[1] != "" {
				res.Record.CaseArticle = fmt.Sprintf("ч.%s ст. %s КоАП РФ", m[1], m[2])
			} else {
				res.Record.CaseArticle = fmt.Sprintf("ст. %s КоАП РФ", m[2])
			}
		} else {
			caseType := known.CaseType
			if caseType == "" {
				caseType = "OTHER"
			}
			article, ok := caseArticleByType[caseType]
			if !ok {
				article = "КоАП РФ"
			}
			res.Record.CaseArticle = article
		}
	}

	if res.Record.CaseDescription == "" {
		desc := input
		// граница по рунам: кириллица многобайтовая, срез по байтам
		// может разрезать символ посередине
		if runes := []rune(desc); len(runes) > 500 {
			desc = string(runes[:500])
		}
		res.Record.CaseDescription = desc
	}

	if res.Record.Phone != "" && known.Phone == "" {
		res.Updates.Phone = res.Record.Phone
	}
	if res.Record.Email != "" && known.Email == "" {
		res.Updates.Email = res.Record.Email
	}

	for field, value := range map[string]string{
		"client_full_name":       res.Record.ClientFullName,
		"client_passport_series": res.Record.PassportSeries,
		"client_passport_number": res.Record.PassportNumber,
		"client_address":         res.Record.Address,
		"client_phone":           res.Record.Phone,
	} {
		if value == "" || value == "Клиент" {
			res.Warnings = append(res.Warnings, fmt.Sprintf("поле %s не заполнено", field))
		}
	}
}

// Structured сериализует запись обратно в девятипольный формат
func Structured(r contract.FieldRecord) string {
	passport := ""
	if r.PassportSeries != "" || r.PassportNumber != "" {
		passport = fmt.Sprintf("серия %s номер %s", r.PassportSeries, r.PassportNumber)
	}
	return strings.Join([]string{
		r.ClientFullName,
		r.BirthDate,
		passport,
		r.Address,
		r.Phone,
		r.Email,
		r.CaseArticle,
		r.Instance,
		r.Representation,
	}, "|")
}

func normalizePhone(raw string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(raw, " "))
}
