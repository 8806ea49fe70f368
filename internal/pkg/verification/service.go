package verification

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/Yasin777-6/Avourist-v1/internal/domain/contract"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/logger"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/metrics"
)

// DefaultTTL срок действия кода подтверждения
const DefaultTTL = 10 * time.Minute

// Store хранилище кодов подтверждения. На договор существует не более
// одного живого кода: Set замещает предыдущий код атомарно.
type Store interface {
	Set(contractNumber, code string, ttl time.Duration) error
	// Get возвращает пустую строку, если кода нет или он истек
	Get(contractNumber string) (string, error)
	Delete(contractNumber string) error
}

// Service выдает и проверяет одноразовые коды, открывающие переход
// договора в SIGNED
type Service struct {
	store Store
	ttl   time.Duration
}

// Option настраивает сервис
type Option func(*Service)

// WithTTL задает срок действия кода
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) { s.ttl = ttl }
}

// New создает сервис поверх хранилища кодов
func New(store Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		ttl:   DefaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue генерирует шестизначный код для договора. Выдача нового кода
// замещает предыдущий: старый код перестает действовать сразу.
func (s *Service) Issue(contractNumber string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}

	if err := s.store.Set(contractNumber, code, s.ttl); err != nil {
		return "", fmt.Errorf("store verification code: %w", err)
	}

	metrics.VerificationTotal.WithLabelValues("issued").Inc()
	logger.Info("verification code issued",
		logger.Field("contract_number", contractNumber),
	)
	return code, nil
}

// Verify проверяет код. Успешная проверка расходует код: повторная
// отправка того же кода завершится ошибкой. Неудачная проверка
// состояние не меняет.
func (s *Service) Verify(contractNumber, code string) error {
	stored, err := s.store.Get(contractNumber)
	if err != nil {
		return fmt.Errorf("load verification code: %w", err)
	}

	if stored == "" {
		metrics.VerificationTotal.WithLabelValues("expired").Inc()
		return contract.ErrCodeExpired
	}
	if stored != code {
		metrics.VerificationTotal.WithLabelValues("mismatch").Inc()
		return contract.ErrCodeMismatch
	}

	if err := s.store.Delete(contractNumber); err != nil {
		return fmt.Errorf("consume verification code: %w", err)
	}

	metrics.VerificationTotal.WithLabelValues("success").Inc()
	logger.Info("verification code accepted",
		logger.Field("contract_number", contractNumber),
	)
	return nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
