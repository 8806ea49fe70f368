package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// State представляет состояние Circuit Breaker
type State int

const (
	StateClosed   State = iota // Нормальное состояние, запросы проходят
	StateOpen                  // Состояние отказа, запросы блокируются
	StateHalfOpen              // Тестовое состояние, пропускается часть запросов
)

var (
	// ErrCircuitOpen возвращается, когда Circuit Breaker находится в открытом состоянии
	ErrCircuitOpen = errors.New("circuit breaker is open")

	circuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current state of the circuit breaker (0: Closed, 1: Open, 2: Half-Open)",
		},
		[]string{"name"},
	)

	circuitBreakerFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_failures_total",
			Help: "Total number of failures detected by circuit breaker",
		},
		[]string{"name"},
	)

	circuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests passed through circuit breaker",
		},
		[]string{"name", "status"},
	)
)

// Config содержит настройки для Circuit Breaker
type Config struct {
	Name             string        // Имя для идентификации в метриках
	FailureThreshold int           // Количество ошибок до перехода в состояние Open
	ResetTimeout     time.Duration // Время до перехода из Open в Half-Open
	HalfOpenMaxCalls int           // Максимальное количество запросов в состоянии Half-Open
	SuccessThreshold int           // Количество успешных запросов для перехода из Half-Open в Closed
}

// CircuitBreaker реализует паттерн Circuit Breaker
type CircuitBreaker struct {
	config Config
	state  State

	failures        int       // Счетчик последовательных ошибок
	lastStateChange time.Time // Время последнего изменения состояния
	successes       int       // Счетчик успешных запросов в Half-Open состоянии
	halfOpenCalls   int       // Счетчик запросов в Half-Open состоянии

	mu sync.RWMutex
}

// New создает новый экземпляр Circuit Breaker
func New(config Config) *CircuitBreaker {
	cb := &CircuitBreaker{
		config:          config,
		state:           StateClosed,
		lastStateChange: time.Now(),
	}

	circuitBreakerState.WithLabelValues(config.Name).Set(float64(StateClosed))
	return cb
}

// Execute выполняет функцию с учетом состояния Circuit Breaker
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func() error) error {
	if !cb.allowRequest() {
		circuitBreakerRequests.WithLabelValues(cb.config.Name, "rejected").Inc()
		return ErrCircuitOpen
	}

	err := fn()
	cb.handleResult(err)

	if err != nil {
		circuitBreakerRequests.WithLabelValues(cb.config.Name, "failure").Inc()
		return err
	}

	circuitBreakerRequests.WithLabelValues(cb.config.Name, "success").Inc()
	return nil
}

// allowRequest проверяет, можно ли выполнить запрос
func (cb *CircuitBreaker) allowRequest() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return true
	case StateOpen:
		if time.Since(cb.lastStateChange) > cb.config.ResetTimeout {
			cb.transition(StateHalfOpen)
			return true
		}
		return false
	case StateHalfOpen:
		if cb.halfOpenCalls >= cb.config.HalfOpenMaxCalls {
			return false
		}
		cb.halfOpenCalls++
		return true
	default:
		return false
	}
}

// handleResult обрабатывает результат выполнения запроса
func (cb *CircuitBreaker) handleResult(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		circuitBreakerFailures.WithLabelValues(cb.config.Name).Inc()
		switch cb.state {
		case StateClosed:
			cb.failures++
			if cb.failures >= cb.config.FailureThreshold {
				cb.transition(StateOpen)
			}
		case StateHalfOpen:
			cb.transition(StateOpen)
		}
		return
	}

	switch cb.state {
	case StateClosed:
		cb.failures = 0
	case StateHalfOpen:
		cb.successes++
		if cb.successes >= cb.config.SuccessThreshold {
			cb.transition(StateClosed)
		}
	}
}

// transition переводит Circuit Breaker в новое состояние; вызывается под mu
func (cb *CircuitBreaker) transition(state State) {
	cb.state = state
	cb.lastStateChange = time.Now()
	cb.failures = 0
	cb.successes = 0
	cb.halfOpenCalls = 0

	circuitBreakerState.WithLabelValues(cb.config.Name).Set(float64(state))
}

// State возвращает текущее состояние Circuit Breaker
func (cb *CircuitBreaker) State() State {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// IsHealthy возвращает true, если Circuit Breaker позволяет обрабатывать запросы
func (cb *CircuitBreaker) IsHealthy() bool {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	return cb.state == StateClosed ||
		(cb.state == StateHalfOpen && cb.halfOpenCalls < cb.config.HalfOpenMaxCalls)
}

// String возвращает строковое представление состояния
func (s State) String() string {
	switch s {
	case StateClosed:
		return "Closed"
	case StateOpen:
		return "Open"
	case StateHalfOpen:
		return "HalfOpen"
	default:
		return "Unknown"
	}
}
