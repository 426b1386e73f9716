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
	StateClosed   State = iota // Нормальное состояние, вызовы проходят
	StateOpen                  // Состояние отказа, вызовы блокируются
	StateHalfOpen              // Пробное состояние, пропускается часть вызовов
)

var (
	// ErrCircuitOpen возвращается, когда Circuit Breaker находится в открытом состоянии
	ErrCircuitOpen = errors.New("circuit breaker is open")

	circuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "docgen_circuit_breaker_state",
			Help: "Current state of the circuit breaker (0: Closed, 1: Open, 2: Half-Open)",
		},
		[]string{"name"},
	)

	circuitBreakerCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docgen_circuit_breaker_calls_total",
			Help: "Total number of calls passed through the circuit breaker",
		},
		[]string{"name", "status"},
	)

	circuitBreakerRecoveryTime = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docgen_circuit_breaker_recovery_duration_seconds",
			Help:    "Time taken to recover from Open to Closed state",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"name"},
	)
)

// Config содержит настройки Circuit Breaker
type Config struct {
	Name             string        // Имя для метрик
	FailureThreshold int           // Количество ошибок подряд до перехода в Open
	ResetTimeout     time.Duration // Время до перехода из Open в Half-Open
	HalfOpenMaxCalls int           // Сколько вызовов пропускается в Half-Open
	SuccessThreshold int           // Успешных вызовов для перехода из Half-Open в Closed
}

// DefaultConfig настройки для защиты хранилища истории
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		FailureThreshold: 5,
		ResetTimeout:     30 * time.Second,
		HalfOpenMaxCalls: 1,
		SuccessThreshold: 1,
	}
}

// CircuitBreaker реализует паттерн Circuit Breaker
type CircuitBreaker struct {
	config Config
	state  State
	now    func() time.Time

	failures        int
	successes       int
	halfOpenCalls   int
	lastStateChange time.Time
	openStartTime   time.Time

	mu sync.Mutex
}

// NewCircuitBreaker создает новый экземпляр Circuit Breaker
func NewCircuitBreaker(config Config) *CircuitBreaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 1
	}
	if config.HalfOpenMaxCalls <= 0 {
		config.HalfOpenMaxCalls = 1
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = 1
	}

	cb := &CircuitBreaker{
		config: config,
		state:  StateClosed,
		now:    time.Now,
	}
	cb.lastStateChange = cb.now()
	circuitBreakerState.WithLabelValues(config.Name).Set(float64(StateClosed))
	return cb
}

// Execute выполняет fn с учетом состояния Circuit Breaker.
// Отмена контекста вызывающим не считается отказом.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	if !cb.allow() {
		circuitBreakerCalls.WithLabelValues(cb.config.Name, "rejected").Inc()
		return ErrCircuitOpen
	}

	err := fn(ctx)
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		cb.release()
		circuitBreakerCalls.WithLabelValues(cb.config.Name, "canceled").Inc()
		return err
	}

	cb.record(err)
	if err != nil {
		circuitBreakerCalls.WithLabelValues(cb.config.Name, "failure").Inc()
		return err
	}
	circuitBreakerCalls.WithLabelValues(cb.config.Name, "success").Inc()
	return nil
}

func (cb *CircuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return true
	case StateOpen:
		if cb.now().Sub(cb.lastStateChange) < cb.config.ResetTimeout {
			return false
		}
		cb.setState(StateHalfOpen)
		fallthrough
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

// release возвращает слот Half-Open без учета результата
func (cb *CircuitBreaker) release() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == StateHalfOpen && cb.halfOpenCalls > 0 {
		cb.halfOpenCalls--
	}
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		switch cb.state {
		case StateClosed:
			cb.failures++
			if cb.failures >= cb.config.FailureThreshold {
				cb.setState(StateOpen)
			}
		case StateHalfOpen:
			cb.setState(StateOpen)
		}
		return
	}

	switch cb.state {
	case StateClosed:
		cb.failures = 0
	case StateHalfOpen:
		cb.successes++
		if cb.successes >= cb.config.SuccessThreshold {
			cb.setState(StateClosed)
		}
	}
}

// setState вызывается под cb.mu
func (cb *CircuitBreaker) setState(s State) {
	now := cb.now()
	prev := cb.state

	cb.state = s
	cb.lastStateChange = now
	cb.failures = 0
	cb.successes = 0
	cb.halfOpenCalls = 0
	circuitBreakerState.WithLabelValues(cb.config.Name).Set(float64(s))

	switch {
	case s == StateOpen && prev == StateClosed:
		cb.openStartTime = now
	case s == StateClosed && !cb.openStartTime.IsZero():
		circuitBreakerRecoveryTime.WithLabelValues(cb.config.Name).Observe(now.Sub(cb.openStartTime).Seconds())
		cb.openStartTime = time.Time{}
	}
}

// State возвращает текущее состояние Circuit Breaker
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// IsHealthy true, если вызовы сейчас пропускаются
func (cb *CircuitBreaker) IsHealthy() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state == StateClosed || (cb.state == StateHalfOpen && cb.halfOpenCalls < cb.config.HalfOpenMaxCalls)
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
