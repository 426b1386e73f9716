package statistics

import (
	"time"

	"github.com/google/uuid"
)

// DefaultHistoryLimit размер выборки истории по умолчанию
const DefaultHistoryLimit = 50

// GenerationRecord одна генерация документа
type GenerationRecord struct {
	ID           uuid.UUID     `json:"id"`
	Timestamp    time.Time     `json:"timestamp"`
	Company      string        `json:"company"`
	DocumentType string        `json:"documentType"`
	FileName     string        `json:"fileName,omitempty"`
	SizeBytes    int64         `json:"sizeBytes"`
	Duration     time.Duration `json:"durationNs"`
	Success      bool          `json:"success"`
	Error        string        `json:"error,omitempty"`
}

// OverlayRecord одно сохранение подписей/печатей
type OverlayRecord struct {
	ID        uuid.UUID `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	SessionID uuid.UUID `json:"sessionId"`
	Source    string    `json:"source"`
	Output    string    `json:"output"`
	Embedded  int       `json:"embedded"`
	Failed    int       `json:"failed"`
}

// TypeStats статистика по одному типу документа
type TypeStats struct {
	Total     uint64 `json:"total"`
	Failed    uint64 `json:"failed"`
	TotalSize int64  `json:"totalSize"`
}

// Summary сводная статистика
type Summary struct {
	Generations     uint64               `json:"generations"`
	Failed          uint64               `json:"failed"`
	ByType          map[string]TypeStats `json:"byType"`
	ByHour          map[int]uint64       `json:"byHour"`
	AverageDuration string               `json:"averageDuration"`
	MinDuration     string               `json:"minDuration"`
	MaxDuration     string               `json:"maxDuration"`
	TotalSize       int64                `json:"totalSize"`
	OverlaySaves    uint64               `json:"overlaySaves"`
	OverlayItems    uint64               `json:"overlayItems"`
	OverlayFailures uint64               `json:"overlayFailures"`
	LastGeneration  *time.Time           `json:"lastGeneration,omitempty"`
}

func newSummary() *Summary {
	return &Summary{
		ByType: make(map[string]TypeStats),
		ByHour: make(map[int]uint64),
	}
}

func (s *Summary) setDurations(total, min, max time.Duration, n uint64) {
	if n == 0 {
		return
	}
	s.AverageDuration = (total / time.Duration(n)).String()
	s.MinDuration = min.String()
	s.MaxDuration = max.String()
}

func normalize(rec *GenerationRecord) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	rec.Timestamp = rec.Timestamp.UTC()
}

func normalizeOverlay(rec *OverlayRecord) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	rec.Timestamp = rec.Timestamp.UTC()
}
