package retry

import (
	"errors"
	"fmt"
)

// ErrMaxAttemptsReached возникает когда исчерпаны все попытки
var ErrMaxAttemptsReached = errors.New("max retry attempts reached")

// RetryError содержит информацию о последней неудачной попытке
type RetryError struct {
	Operation     string
	Attempt       int
	OriginalError error
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("%s: attempt %d failed: %v", e.Operation, e.Attempt, e.OriginalError)
}

// Unwrap возвращает оригинальную ошибку
func (e *RetryError) Unwrap() error {
	return e.OriginalError
}

// IsRetryable проверяет, нужно ли повторять операцию для данной ошибки.
// Пустой список и отсутствие классификатора означают "повторять всё".
func IsRetryable(err error, cfg *Config) bool {
	if err == nil {
		return false
	}

	if len(cfg.RetryableErrors) == 0 && cfg.Classifier == nil {
		return true
	}

	for _, retryableErr := range cfg.RetryableErrors {
		if errors.Is(err, retryableErr) {
			return true
		}
	}

	return cfg.Classifier != nil && cfg.Classifier(err)
}
