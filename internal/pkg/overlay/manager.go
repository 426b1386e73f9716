package overlay

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"docgen-service-go/internal/pkg/metrics"
	"docgen-service-go/internal/pkg/statistics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Manager хранит открытые сессии редактирования
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	opts     Options
	ttl      time.Duration
	assets   AssetReader
	embedder *Embedder
	pageSize func(path string) (PageSize, error)
	history  statistics.Store
	log      *zap.Logger
}

// ManagerConfig параметры Manager
type ManagerConfig struct {
	Options    Options
	SessionTTL time.Duration
	TempDir    string
	Assets     AssetReader
	// History необязательное хранилище истории сохранений
	History statistics.Store
	Logger  *zap.Logger
}

// NewManager создает Manager
func NewManager(cfg ManagerConfig) *Manager {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Assets == nil {
		cfg.Assets = fileReader{}
	}
	return &Manager{
		sessions: make(map[uuid.UUID]*Session),
		opts:     cfg.Options,
		ttl:      cfg.SessionTTL,
		assets:   cfg.Assets,
		embedder: NewEmbedder(cfg.TempDir, cfg.Assets, cfg.Logger),
		pageSize: PageSizeOf,
		history:  cfg.History,
		log:      cfg.Logger,
	}
}

// Open открывает сессию для PDF
func (m *Manager) Open(pdfPath string) (*Session, error) {
	page, err := m.pageSize(pdfPath)
	if err != nil {
		return nil, err
	}

	s := NewSession(pdfPath, page, m.opts)
	m.mu.Lock()
	m.sessions[s.ID()] = s
	metrics.OverlaySessionsActive.Set(float64(len(m.sessions)))
	m.mu.Unlock()

	m.log.Info("overlay session opened",
		zap.String("session_id", s.ID().String()),
		zap.String("pdf", pdfPath),
		zap.Float64("page_width_pt", page.Width),
		zap.Float64("page_height_pt", page.Height))
	return s, nil
}

// Get возвращает сессию по id
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Close закрывает сессию без сохранения
func (m *Manager) Close(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(m.sessions, id)
	metrics.OverlaySessionsActive.Set(float64(len(m.sessions)))
	return nil
}

// Len количество открытых сессий
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// AddImage читает размер изображения и добавляет его в сессию
func (m *Manager) AddImage(ctx context.Context, id uuid.UUID, source string) (Item, error) {
	s, err := m.Get(id)
	if err != nil {
		return Item{}, err
	}

	data, err := m.assets.Read(ctx, source)
	if err != nil {
		return Item{}, fmt.Errorf("%w: %v", ErrImageUnreadable, err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Item{}, fmt.Errorf("%w: %s: %v", ErrImageUnreadable, source, err)
	}
	return s.Add(source, float64(cfg.Width), float64(cfg.Height))
}

// Save сохраняет сессию в dst
func (m *Manager) Save(ctx context.Context, id uuid.UUID, dst string) (*SaveReport, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	report, err := m.embedder.Save(ctx, s, dst)
	if m.history != nil && report != nil {
		rec := statistics.OverlayRecord{
			SessionID: id,
			Source:    s.PDFPath(),
			Output:    dst,
			Embedded:  len(report.Embedded),
			Failed:    len(report.Failed),
		}
		if herr := m.history.RecordOverlay(ctx, rec); herr != nil {
			m.log.Warn("failed to record overlay save", zap.Error(herr))
		}
	}
	return report, err
}

// Reap закрывает сессии, не менявшиеся дольше ttl
func (m *Manager) Reap(now time.Time) int {
	if m.ttl <= 0 {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if now.Sub(s.LastAccess()) > m.ttl {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		metrics.OverlaySessionsActive.Set(float64(len(m.sessions)))
		m.log.Info("expired overlay sessions removed", zap.Int("count", removed))
	}
	return removed
}

// Run периодически удаляет устаревшие сессии до отмены ctx
func (m *Manager) Run(ctx context.Context) {
	if m.ttl <= 0 {
		return
	}
	ticker := time.NewTicker(m.ttl / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.Reap(now)
		}
	}
}
