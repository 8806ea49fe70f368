package contract

// Region определяет региональную группу прайса и шаблонов
const (
	RegionMoscow  = "MOSCOW"
	RegionRegions = "REGIONS"
)

// Representation определяет тип представительства по договору
const (
	RepresentationWithoutPOA = "WITHOUT_POA"
	RepresentationWithPOA    = "WITH_POA"
)

// Pricing содержит денежные условия договора.
// Суммы в рублях целыми числами, как в прайсе.
type Pricing struct {
	TotalAmount       int64  `json:"total_amount"`
	Prepayment        int64  `json:"prepayment"`
	SuccessFee        int64  `json:"success_fee"`
	DocsPrepFee       int64  `json:"docs_prep_fee"`
	PrepaymentPercent int    `json:"prepayment_percent,omitempty"`
	SuccessFeePercent int    `json:"success_fee_percent,omitempty"`
	PaymentTerms      string `json:"payment_terms,omitempty"`
}

// FieldRecord структурированный набор полей договора,
// собранный из переписки или структурированной команды.
type FieldRecord struct {
	ContractNumber  string  `json:"contract_number"`
	ContractDate    string  `json:"contract_date"`
	ClientFullName  string  `json:"client_full_name"`
	BirthDate       string  `json:"birth_date"`
	BirthPlace      string  `json:"birth_place"`
	PassportSeries  string  `json:"client_passport_series"`
	PassportNumber  string  `json:"client_passport_number"`
	Address         string  `json:"client_address"`
	Phone           string  `json:"client_phone"`
	Email           string  `json:"email"`
	CaseArticle     string  `json:"case_article"`
	CaseDescription string  `json:"case_description"`
	Instance        string  `json:"instance"`
	Representation  string  `json:"representation_type"`
	DirectorName    string  `json:"director_name"`
	Pricing         Pricing `json:"pricing"`
}

// TemplateDescriptor идентифицирует физический файл шаблона
type TemplateDescriptor struct {
	CaseType       string
	Instance       string
	Representation string
	Region         string
}
