package statistics

import (
	"context"
	"time"

	"docgen-service-go/internal/pkg/circuitbreaker"
)

// GuardedStore пропускает вызовы к хранилищу через Circuit Breaker,
// чтобы недоступная база не задерживала каждую генерацию на таймаут соединения
type GuardedStore struct {
	store   Store
	breaker *circuitbreaker.CircuitBreaker
}

// NewGuardedStore оборачивает store; cb может быть nil, тогда берутся настройки по умолчанию
func NewGuardedStore(store Store, cb *circuitbreaker.CircuitBreaker) *GuardedStore {
	if cb == nil {
		cb = circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig("history_store"))
	}
	return &GuardedStore{store: store, breaker: cb}
}

func (g *GuardedStore) RecordGeneration(ctx context.Context, rec GenerationRecord) error {
	return g.breaker.Execute(ctx, func(ctx context.Context) error {
		return g.store.RecordGeneration(ctx, rec)
	})
}

func (g *GuardedStore) RecordOverlay(ctx context.Context, rec OverlayRecord) error {
	return g.breaker.Execute(ctx, func(ctx context.Context) error {
		return g.store.RecordOverlay(ctx, rec)
	})
}

func (g *GuardedStore) History(ctx context.Context, limit int) (records []GenerationRecord, err error) {
	err = g.breaker.Execute(ctx, func(ctx context.Context) error {
		records, err = g.store.History(ctx, limit)
		return err
	})
	return records, err
}

func (g *GuardedStore) Summary(ctx context.Context, since time.Time) (summary *Summary, err error) {
	err = g.breaker.Execute(ctx, func(ctx context.Context) error {
		summary, err = g.store.Summary(ctx, since)
		return err
	})
	return summary, err
}

// Healthy false, пока Circuit Breaker открыт
func (g *GuardedStore) Healthy() bool {
	return g.breaker.IsHealthy()
}

func (g *GuardedStore) Close() error {
	return g.store.Close()
}
