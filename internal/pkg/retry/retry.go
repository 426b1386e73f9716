package retry

import (
	"context"
	"time"

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
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Retrier{
		config:    config,
		logger:    logger,
		operation: operation,
	}
}

// Do выполняет операцию с повторными попытками
func (r *Retrier) Do(ctx context.Context, op Operation) error {
	start := time.Now()
	var lastErr error

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			r.observe(start, "cancelled")
			return err
		}

		err := op(ctx)
		if err == nil {
			r.observe(start, "success")
			return nil
		}

		lastErr = err
		r.logger.Warn("retry attempt failed",
			zap.String("operation", r.operation),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		if ctx.Err() != nil {
			r.observe(start, "cancelled")
			return ctx.Err()
		}

		if !IsRetryable(err, r.config) {
			r.observe(start, "non_retryable")
			return &RetryError{Operation: r.operation, Attempt: attempt, OriginalError: err}
		}

		if attempt == r.config.MaxAttempts {
			break
		}

		delay := r.calculateDelay(attempt)
		retryBackoff.WithLabelValues(r.operation).Observe(delay.Seconds())

		select {
		case <-ctx.Done():
			r.observe(start, "cancelled")
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	r.observe(start, "max_attempts")
	if lastErr != nil {
		return &RetryError{Operation: r.operation, Attempt: r.config.MaxAttempts, OriginalError: lastErr}
	}
	return ErrMaxAttemptsReached
}

func (r *Retrier) observe(start time.Time, status string) {
	retryAttempts.WithLabelValues(r.operation, status).Inc()
	retryDuration.WithLabelValues(r.operation, status).Observe(time.Since(start).Seconds())
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
