package app

import (
	"context"
	"fmt"

	"docgen-service-go/internal/domain/document"
	"docgen-service-go/internal/pkg/assets"
	"docgen-service-go/internal/pkg/cache"
	"docgen-service-go/internal/pkg/config"
	"docgen-service-go/internal/pkg/format"
	"docgen-service-go/internal/pkg/overlay"
	"docgen-service-go/internal/pkg/statistics"

	"go.uber.org/zap"
)

// App собранные компоненты сервиса
type App struct {
	Config    *config.Config
	Cache     *cache.Cache
	Assets    *assets.Resolver
	Formatter *format.Formatter
	History   statistics.Store
	Documents *document.ServiceImpl
	Overlay   *overlay.Manager
}

// New собирает компоненты по конфигурации.
// Если задан Database.URL, история пишется в PostgreSQL через Circuit Breaker,
// иначе хранится в памяти процесса.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	formatter, err := NewFormatter(cfg.Format, cfg.Document.WordsPolicy)
	if err != nil {
		return nil, err
	}
	style, err := document.ParseInvoiceStyle(cfg.Document.InvoiceStyle)
	if err != nil {
		return nil, err
	}
	history, err := NewHistoryStore(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}

	c := cache.NewCache(cfg.Cache.TTL)
	resolver := assets.NewResolver(cfg.Paths.Letterheads, c)

	docs := document.NewService(document.ServiceConfig{
		Options: document.Options{
			OutputDir:   cfg.Paths.Output,
			Companies:   cfg.Companies,
			Signature:   cfg.Paths.Signature,
			Stamp:       cfg.Paths.Stamp,
			Style:       style,
			DigitSniff:  cfg.Document.DigitSniff,
			WordsSuffix: cfg.Format.CurrencySuffix,
		},
		Assets:    resolver,
		Formatter: formatter,
		History:   history,
		Logger:    log.Named("document"),
	})

	manager := overlay.NewManager(overlay.ManagerConfig{
		Options: overlay.Options{
			MinZoom:  cfg.Overlay.MinZoom,
			ZoomStep: cfg.Overlay.ZoomStep,
		},
		SessionTTL: cfg.Overlay.SessionTTL,
		TempDir:    cfg.Overlay.TempDir,
		Assets:     resolver,
		History:    history,
		Logger:     log.Named("overlay"),
	})

	return &App{
		Config:    cfg,
		Cache:     c,
		Assets:    resolver,
		Formatter: formatter,
		History:   history,
		Documents: docs,
		Overlay:   manager,
	}, nil
}

// Close освобождает кэш и хранилище истории
func (a *App) Close() error {
	a.Cache.Close()
	return a.History.Close()
}

// NewFormatter собирает Formatter из настроек. Язык имеет приоритет,
// разделители используются, если язык не задан или не разобран.
func NewFormatter(fc config.FormatConfig, wordsPolicy string) (*format.Formatter, error) {
	policy, err := format.ParseWordsPolicy(wordsPolicy)
	if err != nil {
		return nil, err
	}
	return format.New(format.NumberFormat{
		Language:         format.ParseLanguage(fc.Language),
		DecimalSeparator: fc.DecimalSeparator,
		GroupSeparator:   fc.GroupSeparator,
		FractionDigits:   2,
	}, policy), nil
}

// NewHistoryStore выбирает хранилище истории
func NewHistoryStore(ctx context.Context, db config.DatabaseConfig, log *zap.Logger) (statistics.Store, error) {
	if db.URL == "" {
		log.Info("history kept in memory")
		return statistics.NewMemoryStore(0), nil
	}
	pg, err := statistics.NewPostgresStore(ctx, db.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}
	log.Info("history stored in postgres")
	return statistics.NewGuardedStore(pg, nil), nil
}
