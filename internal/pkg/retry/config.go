package retry

import "time"

// Config содержит настройки повторных попыток записи
type Config struct {
	// MaxAttempts максимальное количество попыток включая первую
	MaxAttempts int
	// InitialDelay начальная задержка между попытками
	InitialDelay time.Duration
	// MaxDelay максимальная задержка между попытками
	MaxDelay time.Duration
	// BackoffFactor множитель для экспоненциальной задержки
	BackoffFactor float64
	// RetryableErrors список ошибок, для которых нужно выполнять retry
	RetryableErrors []error
	// Classifier решает, повторять ли ошибку, которой нет в RetryableErrors
	Classifier func(error) bool
}

// DefaultConfig возвращает конфигурацию по умолчанию.
// Запись файла, открытого во внешнем просмотрщике, обычно освобождается за сотни миллисекунд.
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts:   3,
		InitialDelay:  150 * time.Millisecond,
		MaxDelay:      time.Second,
		BackoffFactor: 2.0,
	}
}

// Option функциональная опция конфигурации
type Option func(*Config)

// WithMaxAttempts устанавливает максимальное количество попыток
func WithMaxAttempts(attempts int) Option {
	return func(c *Config) {
		if attempts > 0 {
			c.MaxAttempts = attempts
		}
	}
}

// WithInitialDelay устанавливает начальную задержку
func WithInitialDelay(delay time.Duration) Option {
	return func(c *Config) {
		c.InitialDelay = delay
	}
}

// WithMaxDelay устанавливает максимальную задержку
func WithMaxDelay(delay time.Duration) Option {
	return func(c *Config) {
		c.MaxDelay = delay
	}
}

// WithBackoffFactor устанавливает множитель для экспоненциальной задержки
func WithBackoffFactor(factor float64) Option {
	return func(c *Config) {
		c.BackoffFactor = factor
	}
}

// WithRetryableErrors устанавливает список ошибок для retry
func WithRetryableErrors(errors []error) Option {
	return func(c *Config) {
		c.RetryableErrors = errors
	}
}

// WithClassifier задает функцию классификации ошибок
func WithClassifier(fn func(error) bool) Option {
	return func(c *Config) {
		c.Classifier = fn
	}
}
