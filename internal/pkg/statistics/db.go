package statistics

import (
	"context"
	"time"
)

// Store хранилище истории генераций и сохранений подписей
type Store interface {
	// RecordGeneration записывает результат генерации документа
	RecordGeneration(ctx context.Context, rec GenerationRecord) error

	// RecordOverlay записывает результат сохранения подписей/печатей
	RecordOverlay(ctx context.Context, rec OverlayRecord) error

	// History возвращает последние генерации, новые первыми
	History(ctx context.Context, limit int) ([]GenerationRecord, error)

	// Summary возвращает сводку за период начиная с since (нулевое время - за все время)
	Summary(ctx context.Context, since time.Time) (*Summary, error)

	// Close закрывает хранилище
	Close() error
}
