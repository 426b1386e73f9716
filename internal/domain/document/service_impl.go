package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"docgen-service-go/internal/pkg/assets"
	"docgen-service-go/internal/pkg/format"
	"docgen-service-go/internal/pkg/metrics"
	"docgen-service-go/internal/pkg/retry"
	"docgen-service-go/internal/pkg/statistics"
	"docgen-service-go/internal/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Options оформление и размещение документов
type Options struct {
	OutputDir   string
	Companies   []string
	Signature   string
	Stamp       string
	Style       InvoiceStyle
	DigitSniff  bool
	WordsSuffix string
}

// ServiceConfig зависимости ServiceImpl
type ServiceConfig struct {
	Options
	Registry  *Registry
	Assets    *assets.Resolver
	Formatter *format.Formatter
	// History необязательное хранилище истории генераций
	History statistics.Store
	Logger  *zap.Logger
	Now     func() time.Time
}

type ServiceImpl struct {
	opts      Options
	registry  *Registry
	assets    *assets.Resolver
	formatter *format.Formatter
	history   statistics.Store
	retrier   *retry.Retrier
	log       *zap.Logger
	now       func() time.Time
}

func NewService(cfg ServiceConfig) *ServiceImpl {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Registry == nil {
		cfg.Registry = NewRegistry()
	}
	if cfg.Formatter == nil {
		cfg.Formatter = format.New(format.DefaultNumberFormat(), format.RoundThenConvert)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &ServiceImpl{
		opts:      cfg.Options,
		registry:  cfg.Registry,
		assets:    cfg.Assets,
		formatter: cfg.Formatter,
		history:   cfg.History,
		retrier:   retry.New("document_write", cfg.Logger, retry.WithClassifier(retry.IsTransientFSError)),
		log:       cfg.Logger,
		now:       cfg.Now,
	}
}

func (s *ServiceImpl) Templates() []TemplateInfo {
	return s.registry.Describe()
}

func (s *ServiceImpl) Companies() []string {
	return append([]string(nil), s.opts.Companies...)
}

func (s *ServiceImpl) hasCompany(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	if len(s.opts.Companies) == 0 {
		return true
	}
	for _, c := range s.opts.Companies {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}

// Generate проверяет данные, находит бланк, выводит PDF и записывает его в каталог результатов.
// Ошибки проверки и поиска бланка возвращаются до создания каких-либо файлов.
func (s *ServiceImpl) Generate(ctx context.Context, req *Request) (res *Result, err error) {
	ctx, span := tracing.StartSpan(ctx, "document.Generate",
		attribute.String("document.type", req.DocumentType),
		attribute.String("document.company", req.Company),
	)
	log := s.log.With(
		zap.String("company", req.Company),
		zap.String("document_type", req.DocumentType),
		zap.String("trace_id", tracing.GetTraceID(ctx)),
	)

	start := time.Now()
	docLabel := "unknown"
	defer func() {
		duration := time.Since(start)
		status := "success"
		if err != nil {
			status = "error"
		}
		metrics.DocumentGenerationTotal.WithLabelValues(docLabel, status).Inc()
		metrics.DocumentGenerationDuration.WithLabelValues(docLabel).Observe(duration.Seconds())
		if res != nil {
			res.Duration = duration
			metrics.DocumentFileSizeBytes.WithLabelValues(docLabel).Observe(float64(res.Size))
		}
		tracing.EndSpan(span, err)
		s.record(ctx, req, res, duration, err)

		if err != nil {
			log.Warn("Document generation failed", zap.Error(err), zap.Duration("duration", duration))
			return
		}
		log.Info("Document generated",
			zap.String("path", res.Path),
			zap.Int64("size_bytes", res.Size),
			zap.Duration("duration", duration))
	}()

	tpl, err := s.registry.Lookup(req.DocumentType)
	if err != nil {
		return nil, err
	}
	docLabel = tpl.Type()

	if !s.hasCompany(req.Company) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCompany, req.Company)
	}

	data := req.Data.clone()
	if err := tpl.Validate(&data); err != nil {
		return nil, err
	}

	if s.assets == nil {
		return nil, errors.New("asset resolver is not configured")
	}
	letterhead, err := s.assets.Letterhead(req.Company)
	if err != nil {
		return nil, err
	}
	tracing.AddEvent(ctx, "letterhead.resolved", attribute.String("letterhead", letterhead))

	var buf bytes.Buffer
	canvas, err := Render(ctx, tpl, &data, CanvasOptions{
		Company:     req.Company,
		Letterhead:  letterhead,
		Signature:   s.opts.Signature,
		Stamp:       s.opts.Stamp,
		Images:      s.assets,
		Formatter:   s.formatter,
		Style:       s.opts.Style,
		DigitSniff:  s.opts.DigitSniff,
		WordsSuffix: s.opts.WordsSuffix,
		Logger:      log,
	}, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", tpl.Type(), err)
	}
	log.Debug("Document rendered", zap.Any("table_rows", canvas.Rows()), zap.Int("bytes", buf.Len()))

	path, err := assets.OutputPath(s.opts.OutputDir, req.Company, tpl.Type(), s.now())
	if err != nil {
		return nil, err
	}
	if err := s.retrier.Do(ctx, func(context.Context) error { return writeAtomic(path, buf.Bytes()) }); err != nil {
		return nil, fmt.Errorf("failed to write document: %w", err)
	}

	return &Result{
		Path:     path,
		FileName: filepath.Base(path),
		Size:     int64(buf.Len()),
		PDF:      buf.Bytes(),
	}, nil
}

func (s *ServiceImpl) record(ctx context.Context, req *Request, res *Result, duration time.Duration, err error) {
	if s.history == nil {
		return
	}
	rec := statistics.GenerationRecord{
		Company:      req.Company,
		DocumentType: req.DocumentType,
		Duration:     duration,
		Success:      err == nil,
	}
	if res != nil {
		rec.FileName = res.FileName
		rec.SizeBytes = res.Size
	}
	if err != nil {
		rec.Error = err.Error()
	}
	if herr := s.history.RecordGeneration(context.WithoutCancel(ctx), rec); herr != nil {
		s.log.Warn("Failed to record generation", zap.Error(herr))
	}
}

// writeAtomic пишет во временный файл рядом и переименовывает его,
// чтобы при ошибке не оставалось недописанного документа
func writeAtomic(path string, data []byte) error {
	tmp := path + ".part"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
