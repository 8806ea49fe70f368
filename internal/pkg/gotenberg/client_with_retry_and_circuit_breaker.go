package gotenberg

import (
	"context"
	"time"

	"github.com/Yasin777-6/Avourist-v1/internal/pkg/circuitbreaker"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/logger"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/retry"
)

// ClientWithRetryAndCircuitBreaker комбинирует retry и circuit breaker
// вокруг базового клиента: конвертация в PDF не критична для выдачи
// договора, но внешний сервис не должен заваливаться повторами
type ClientWithRetryAndCircuitBreaker struct {
	client  *Client
	cb      *circuitbreaker.CircuitBreaker
	retrier *retry.Retrier
}

// NewClientWithRetryAndCircuitBreaker создает клиента с retry и circuit breaker
func NewClientWithRetryAndCircuitBreaker(baseURL string) *ClientWithRetryAndCircuitBreaker {
	cb := circuitbreaker.New(circuitbreaker.Config{
		Name:             "gotenberg",
		FailureThreshold: getEnvIntWithDefault("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 10),
		ResetTimeout:     getEnvDurationWithDefault("CIRCUIT_BREAKER_RESET_TIMEOUT", 5*time.Second),
		HalfOpenMaxCalls: getEnvIntWithDefault("CIRCUIT_BREAKER_HALF_OPEN_MAX_CALLS", 5),
		SuccessThreshold: getEnvIntWithDefault("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 3),
	})

	retrier := retry.New(
		"gotenberg",
		logger.Log,
		retry.WithMaxAttempts(getEnvIntWithDefault("GOTENBERG_RETRY_MAX_ATTEMPTS", 5)),
		retry.WithInitialDelay(getEnvDurationWithDefault("GOTENBERG_RETRY_INITIAL_DELAY", 50*time.Millisecond)),
		retry.WithMaxDelay(getEnvDurationWithDefault("GOTENBERG_RETRY_MAX_DELAY", time.Second)),
		retry.WithBackoffFactor(float64(getEnvIntWithDefault("GOTENBERG_RETRY_BACKOFF_FACTOR", 2))),
	)

	return &ClientWithRetryAndCircuitBreaker{
		client:  NewClient(baseURL),
		cb:      cb,
		retrier: retrier,
	}
}

// ConvertDocxToPDF конвертирует DOCX в PDF с повторами и circuit breaker
func (c *ClientWithRetryAndCircuitBreaker) ConvertDocxToPDF(ctx context.Context, docxPath string) ([]byte, error) {
	var result []byte
	err := c.retrier.Do(ctx, func(ctx context.Context) error {
		return c.cb.Execute(ctx, func() error {
			if err := c.client.HealthCheck(); err != nil {
				return err
			}
			var err error
			result, err = c.client.ConvertDocxToPDF(docxPath)
			return err
		})
	})
	return result, err
}

// HealthCheck проксирует проверку здоровья базового клиента
func (c *ClientWithRetryAndCircuitBreaker) HealthCheck() error {
	return c.client.HealthCheck()
}

// State возвращает текущее состояние circuit breaker
func (c *ClientWithRetryAndCircuitBreaker) State() circuitbreaker.State {
	return c.cb.State()
}

// IsHealthy сообщает, закрыт ли circuit breaker
func (c *ClientWithRetryAndCircuitBreaker) IsHealthy() bool {
	return c.cb.IsHealthy()
}
