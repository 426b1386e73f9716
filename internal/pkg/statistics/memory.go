package statistics

import (
	"context"
	"sync"
	"time"
)

// MemoryStore хранит историю в памяти, ограничивая количество записей
type MemoryStore struct {
	mu          sync.RWMutex
	capacity    int
	generations []GenerationRecord
	overlays    []OverlayRecord
}

// NewMemoryStore создает хранилище на capacity последних записей
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = 1000
	}
	return &MemoryStore{capacity: capacity}
}

func (m *MemoryStore) RecordGeneration(_ context.Context, rec GenerationRecord) error {
	normalize(&rec)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.generations = append(m.generations, rec)
	if len(m.generations) > m.capacity {
		m.generations = m.generations[len(m.generations)-m.capacity:]
	}
	return nil
}

func (m *MemoryStore) RecordOverlay(_ context.Context, rec OverlayRecord) error {
	normalizeOverlay(&rec)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.overlays = append(m.overlays, rec)
	if len(m.overlays) > m.capacity {
		m.overlays = m.overlays[len(m.overlays)-m.capacity:]
	}
	return nil
}

func (m *MemoryStore) History(_ context.Context, limit int) ([]GenerationRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.generations)
	if limit > n {
		limit = n
	}
	out := make([]GenerationRecord, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, m.generations[i])
	}
	return out, nil
}

func (m *MemoryStore) Summary(_ context.Context, since time.Time) (*Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := newSummary()
	var total, minD, maxD time.Duration
	for _, rec := range m.generations {
		if !since.IsZero() && rec.Timestamp.Before(since) {
			continue
		}
		s.Generations++
		ts := s.ByType[rec.DocumentType]
		ts.Total++
		if !rec.Success {
			s.Failed++
			ts.Failed++
		}
		ts.TotalSize += rec.SizeBytes
		s.ByType[rec.DocumentType] = ts
		s.ByHour[rec.Timestamp.Hour()]++
		s.TotalSize += rec.SizeBytes

		total += rec.Duration
		if minD == 0 || rec.Duration < minD {
			minD = rec.Duration
		}
		if rec.Duration > maxD {
			maxD = rec.Duration
		}
		if s.LastGeneration == nil || rec.Timestamp.After(*s.LastGeneration) {
			ts := rec.Timestamp
			s.LastGeneration = &ts
		}
	}
	s.setDurations(total, minD, maxD, s.Generations)

	for _, rec := range m.overlays {
		if !since.IsZero() && rec.Timestamp.Before(since) {
			continue
		}
		s.OverlaySaves++
		s.OverlayItems += uint64(rec.Embedded)
		s.OverlayFailures += uint64(rec.Failed)
	}
	return s, nil
}

func (m *MemoryStore) Close() error {
	return nil
}
