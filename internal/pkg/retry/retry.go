package retry

import (
	"context"
	"strconv"
	"time"

	"github.com/Yasin777-6/Avourist-v1/internal/pkg/metrics"

	"go.uber.org/zap"
)

// Operation представляет операцию, которую нужно повторить
type Operation func(ctx context.Context) error

// Retrier выполняет повторные попытки операции
type Retrier struct {
	config    *Config
	logger    *zap.Logger
	operation string
}

// New создает новый экземпляр Retrier
func New(operation string, logger *zap.Logger, opts ...Option) *Retrier {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}

	return &Retrier{
		config:    config,
		logger:    logger,
		operation: operation,
	}
}

// Do выполняет операцию с повторными попытками
func (r *Retrier) Do(ctx context.Context, op Operation) error {
	var lastErr error

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		attemptStr := strconv.Itoa(attempt)
		attemptStart := time.Now()

		err := op(ctx)
		if err == nil {
			metrics.RetryAttemptsTotal.WithLabelValues(r.operation, attemptStr, "success").Inc()
			return nil
		}

		lastErr = err
		r.logger.Warn("retry attempt failed",
			zap.String("operation", r.operation),
			zap.Int("attempt", attempt),
			zap.Error(err),
			zap.Duration("duration", time.Since(attemptStart)),
		)
		metrics.RetryAttemptsTotal.WithLabelValues(r.operation, attemptStr, "failed").Inc()

		// Если контекст отменен, прекращаем попытки
		if ctx.Err() != nil {
			metrics.RetryAttemptsTotal.WithLabelValues(r.operation, attemptStr, "cancelled").Inc()
			return ctx.Err()
		}

		// Если ошибка не подлежит retry, прекращаем попытки
		if !IsRetryable(err, r.config.RetryableErrors) {
			metrics.RetryAttemptsTotal.WithLabelValues(r.operation, attemptStr, "non_retryable").Inc()
			return &Error{
				Attempt:       attempt,
				OriginalError: err,
			}
		}

		// Последняя попытка, ждать больше нечего
		if attempt == r.config.MaxAttempts {
			break
		}

		delay := r.calculateDelay(attempt)
		metrics.RetryBackoffDuration.WithLabelValues(r.operation).Observe(delay.Seconds())

		select {
		case <-ctx.Done():
			metrics.RetryAttemptsTotal.WithLabelValues(r.operation, attemptStr, "cancelled").Inc()
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	if lastErr != nil {
		return &Error{
			Attempt:       r.config.MaxAttempts,
			OriginalError: lastErr,
		}
	}

	return ErrMaxAttemptsReached
}

// calculateDelay вычисляет задержку для следующей попытки
func (r *Retrier) calculateDelay(attempt int) time.Duration {
	delay := float64(r.config.InitialDelay)
	for i := 1; i < attempt; i++ {
		delay *= r.config.BackoffFactor
	}

	if delay > float64(r.config.MaxDelay) {
		delay = float64(r.config.MaxDelay)
	}

	return time.Duration(delay)
}
