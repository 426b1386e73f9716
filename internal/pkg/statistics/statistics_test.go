package statistics

import (
	"context"
	"errors"
	"testing"
	"time"

	"docgen-service-go/internal/pkg/circuitbreaker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_HistoryNewestFirst(t *testing.T) {
	store := NewMemoryStore(10)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i, docType := range []string{"Invoice", "Salary Slip", "Request Letter"} {
		require.NoError(t, store.RecordGeneration(ctx, GenerationRecord{
			Timestamp:    base.Add(time.Duration(i) * time.Minute),
			Company:      "Acme",
			DocumentType: docType,
			Success:      true,
		}))
	}

	history, err := store.History(ctx, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Request Letter", history[0].DocumentType)
	assert.Equal(t, "Salary Slip", history[1].DocumentType)
	assert.NotEqual(t, history[0].ID, history[1].ID)
}

func TestMemoryStore_CapacityDropsOldest(t *testing.T) {
	store := NewMemoryStore(2)
	ctx := context.Background()

	for _, company := range []string{"A", "B", "C"} {
		require.NoError(t, store.RecordGeneration(ctx, GenerationRecord{Company: company, DocumentType: "Invoice"}))
	}

	history, err := store.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "C", history[0].Company)
	assert.Equal(t, "B", history[1].Company)
}

func TestMemoryStore_Summary(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	records := []GenerationRecord{
		{Timestamp: base, DocumentType: "Invoice", SizeBytes: 100, Duration: 10 * time.Millisecond, Success: true},
		{Timestamp: base.Add(time.Hour), DocumentType: "Invoice", SizeBytes: 0, Duration: 30 * time.Millisecond, Success: false},
		{Timestamp: base.Add(2 * time.Hour), DocumentType: "Salary Slip", SizeBytes: 50, Duration: 20 * time.Millisecond, Success: true},
	}
	for _, rec := range records {
		require.NoError(t, store.RecordGeneration(ctx, rec))
	}
	require.NoError(t, store.RecordOverlay(ctx, OverlayRecord{Embedded: 2, Failed: 1}))

	s, err := store.Summary(ctx, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), s.Generations)
	assert.Equal(t, uint64(1), s.Failed)
	assert.Equal(t, int64(150), s.TotalSize)
	assert.Equal(t, TypeStats{Total: 2, Failed: 1, TotalSize: 100}, s.ByType["Invoice"])
	assert.Equal(t, uint64(1), s.ByHour[10])
	assert.Equal(t, "20ms", s.AverageDuration)
	assert.Equal(t, "10ms", s.MinDuration)
	assert.Equal(t, "30ms", s.MaxDuration)
	assert.Equal(t, uint64(1), s.OverlaySaves)
	assert.Equal(t, uint64(2), s.OverlayItems)
	assert.Equal(t, uint64(1), s.OverlayFailures)
	require.NotNil(t, s.LastGeneration)
	assert.True(t, s.LastGeneration.Equal(base.Add(2*time.Hour)))

	since, err := store.Summary(ctx, base.Add(90*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), since.Generations)
	assert.Equal(t, "Salary Slip", firstKey(since.ByType))
}

func TestNewPostgresStore_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := NewPostgresStore(ctx, "host=127.0.0.1 port=1 user=docgen dbname=docgen connect_timeout=1 sslmode=disable")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ping database")
}

type failingStore struct {
	*MemoryStore
	calls int
}

func (f *failingStore) RecordGeneration(context.Context, GenerationRecord) error {
	f.calls++
	return errors.New("connection refused")
}

func TestGuardedStore_OpensAfterFailures(t *testing.T) {
	backend := &failingStore{MemoryStore: NewMemoryStore(10)}
	cb := circuitbreaker.NewCircuitBreaker(circuitbreaker.Config{
		Name:             "history_test",
		FailureThreshold: 2,
		ResetTimeout:     time.Hour,
	})
	store := NewGuardedStore(backend, cb)
	ctx := context.Background()

	assert.Error(t, store.RecordGeneration(ctx, GenerationRecord{}))
	assert.Error(t, store.RecordGeneration(ctx, GenerationRecord{}))
	assert.False(t, store.Healthy())

	err := store.RecordGeneration(ctx, GenerationRecord{})
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
	assert.Equal(t, 2, backend.calls)

	_, err = store.History(ctx, 5)
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
}

func TestGuardedStore_PassesThrough(t *testing.T) {
	store := NewGuardedStore(NewMemoryStore(10), nil)
	ctx := context.Background()

	require.NoError(t, store.RecordGeneration(ctx, GenerationRecord{Company: "Acme", DocumentType: "Invoice", Success: true}))
	require.NoError(t, store.RecordOverlay(ctx, OverlayRecord{Embedded: 1}))

	history, err := store.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Acme", history[0].Company)

	s, err := store.Summary(ctx, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), s.OverlaySaves)
	assert.True(t, store.Healthy())
	assert.NoError(t, store.Close())
}

func firstKey(m map[string]TypeStats) string {
	for k := range m {
		return k
	}
	return ""
}
