package generation

import (
	"context"

	"github.com/Yasin777-6/Avourist-v1/internal/domain/contract"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/circuitbreaker"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/intent"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/registry"
)

// GenerateRequest запрос на генерацию договора
type GenerateRequest struct {
	TelegramID int64  `json:"telegram_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Region     string `json:"region"`
	CaseType   string `json:"case_type"`
	// Input текст переписки либо девятипольная структурированная строка
	Input string `json:"input"`
	// WithPDF дополнительно конвертировать договор в PDF
	WithPDF bool `json:"with_pdf"`
}

// GenerateResult итог генерации
type GenerateResult struct {
	ContractNumber   string           `json:"contract_number"`
	Filename         string           `json:"filename"`
	Format           string           `json:"format"`
	StoragePath      string           `json:"storage_path"`
	Pricing          contract.Pricing `json:"pricing"`
	ReplacementCount int              `json:"replacement_count"`
	Warnings         []string         `json:"warnings,omitempty"`
	VerificationCode string           `json:"-"`
	Delivered        bool             `json:"delivered"`
}

// PetitionRequest запрос на сборку ходатайства
type PetitionRequest struct {
	Text       string `json:"text"`
	ClientName string `json:"client_name"`
}

// PetitionResult итог сборки ходатайства
type PetitionResult struct {
	Path string `json:"path"`
}

// Registry реестр клиентов и договоров
type Registry interface {
	UpsertLead(lead registry.Lead) (int64, error)
	LeadByTelegramID(telegramID int64) (*registry.Lead, error)
	UpdateLeadContact(leadID int64, phone, email string) error
	CreateContract(leadID int64, number string, totalAmount int64) (int64, error)
	ContractByNumber(number string) (*registry.ContractRow, error)
	LatestContractByLead(leadID int64) (*registry.ContractRow, error)
	UpdateContractStatus(number string, to contract.Status) error
	SetContractFile(number, path, format string) error
}

// Service операции жизненного цикла договора и сопутствующих документов
type Service interface {
	// GenerateContract прогоняет полный конвейер: разбор полей, прайс,
	// выбор шаблона, заполнение, сохранение, доставку и выдачу кода
	GenerateContract(ctx context.Context, req *GenerateRequest) (*GenerateResult, error)
	// VerifyCode проверяет код и переводит договор в SIGNED
	VerifyCode(ctx context.Context, contractNumber, code string) error
	// ResendCode выдает новый код, предыдущий перестает действовать
	ResendCode(ctx context.Context, contractNumber string) (string, error)
	// GeneratePetition собирает ходатайство в DOCX
	GeneratePetition(ctx context.Context, req *PetitionRequest) (*PetitionResult, error)
	// RouteMessage определяет назначение входящего сообщения
	RouteMessage(message string) intent.Intent
	// ConverterState состояние circuit breaker внешнего конвертера PDF
	ConverterState() circuitbreaker.State
	// IsConverterHealthy сообщает, доступен ли внешний конвертер PDF
	IsConverterHealthy() bool
}
