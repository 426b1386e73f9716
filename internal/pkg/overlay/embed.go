package overlay

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"docgen-service-go/internal/pkg/metrics"
	"docgen-service-go/internal/pkg/retry"
	"docgen-service-go/internal/pkg/tracing"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"
	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// AssetReader читает байты файла изображения
type AssetReader interface {
	Read(ctx context.Context, path string) ([]byte, error)
}

type fileReader struct{}

func (fileReader) Read(_ context.Context, path string) ([]byte, error) {
	return os.ReadFile(path)
}

// ItemFailure изображение, которое не удалось встроить
type ItemFailure struct {
	ID     uuid.UUID `json:"id"`
	Source string    `json:"source"`
	Reason string    `json:"reason"`
}

// SaveReport результат сохранения
type SaveReport struct {
	Output   string        `json:"output"`
	Pages    int           `json:"pages"`
	Embedded []uuid.UUID   `json:"embedded"`
	Failed   []ItemFailure `json:"failed,omitempty"`
}

// Embedder встраивает изображения сессии в копию исходного PDF
type Embedder struct {
	tempDir string
	assets  AssetReader
	retrier *retry.Retrier
	log     *zap.Logger
}

// NewEmbedder создает Embedder. Пустой tempDir означает системный каталог,
// assets == nil читает файлы напрямую.
func NewEmbedder(tempDir string, assets AssetReader, log *zap.Logger) *Embedder {
	if assets == nil {
		assets = fileReader{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Embedder{
		tempDir: tempDir,
		assets:  assets,
		retrier: retry.New("overlay_write", log, retry.WithClassifier(retry.IsTransientFSError)),
		log:     log,
	}
}

// Save переносит исходный PDF в dst и рисует изображения сессии на первой странице.
// Ошибка отдельного изображения не прерывает сохранение: она попадает в SaveReport.Failed.
func (e *Embedder) Save(ctx context.Context, s *Session, dst string) (report *SaveReport, err error) {
	ctx, span := tracing.StartSpan(ctx, "overlay.Save",
		attribute.String("overlay.session_id", s.ID().String()),
		attribute.String("overlay.output", dst),
	)
	defer func() {
		tracing.EndSpan(span, err)
		switch {
		case err != nil:
			metrics.OverlaySavesTotal.WithLabelValues("failed").Inc()
		case len(report.Failed) > 0:
			metrics.OverlaySavesTotal.WithLabelValues("partial").Inc()
		default:
			metrics.OverlaySavesTotal.WithLabelValues("success").Inc()
		}
	}()

	st := s.State()
	if len(st.Items) == 0 {
		return nil, ErrNoItems
	}

	pages, err := PageCountOf(st.PDFPath)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "pt", "", "")
	pdf.SetAutoPageBreak(false, 0)
	imp := gofpdi.NewImporter()

	if err := importPage(pdf, imp, st.PDFPath, 1, st.Page); err != nil {
		return nil, err
	}

	report = &SaveReport{Output: dst, Pages: pages}
	for _, view := range st.Items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := e.embed(ctx, pdf, view); err != nil {
			metrics.OverlayItemsTotal.WithLabelValues("failed").Inc()
			e.log.Warn("failed to embed overlay item",
				zap.String("item_id", view.ID.String()),
				zap.String("source", view.Source),
				zap.Error(err))
			report.Failed = append(report.Failed, ItemFailure{ID: view.ID, Source: view.Source, Reason: err.Error()})
			continue
		}
		metrics.OverlayItemsTotal.WithLabelValues("embedded").Inc()
		report.Embedded = append(report.Embedded, view.ID)
	}
	if len(report.Embedded) == 0 {
		return report, ErrNothingEmbedded
	}

	for n := 2; n <= pages; n++ {
		if err := importPage(pdf, imp, st.PDFPath, n, st.Page); err != nil {
			return nil, err
		}
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("failed to build overlay pdf: %w", err)
	}
	if err := e.retrier.Do(ctx, func(context.Context) error { return writePDF(out.Bytes(), dst) }); err != nil {
		return nil, fmt.Errorf("failed to write overlay pdf: %w", err)
	}

	if err := api.ValidateFile(dst, model.NewDefaultConfiguration()); err != nil {
		e.log.Warn("saved pdf did not pass validation", zap.String("output", dst), zap.Error(err))
	}

	e.log.Info("overlay saved",
		zap.String("session_id", s.ID().String()),
		zap.String("output", dst),
		zap.Int("embedded", len(report.Embedded)),
		zap.Int("failed", len(report.Failed)))
	return report, nil
}

func (e *Embedder) embed(ctx context.Context, pdf *fpdf.Fpdf, view ItemView) error {
	data, err := e.assets.Read(ctx, view.Source)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrImageUnreadable, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrImageUnreadable, err)
	}

	path, cleanup, err := e.writeTemp(RotateImage(img, view.Rotation))
	if err != nil {
		return err
	}
	defer cleanup()

	r := view.PagePoints
	pdf.ImageOptions(path, r.X, r.Y, r.W, r.H, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	if pdf.Err() {
		err := pdf.Error()
		pdf.ClearError()
		return fmt.Errorf("failed to draw image: %w", err)
	}
	return nil
}

// writeTemp сохраняет растр во временный PNG; cleanup удаляет файл
func (e *Embedder) writeTemp(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp(e.tempDir, "overlay-*.png")
	if err != nil {
		metrics.TempFileErrors.WithLabelValues("create").Inc()
		return "", nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	metrics.TempFilesCurrent.Inc()

	path := f.Name()
	cleanup := func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			metrics.TempFileErrors.WithLabelValues("remove").Inc()
			e.log.Warn("failed to remove temp file", zap.String("path", path), zap.Error(err))
		}
		metrics.TempFilesCurrent.Dec()
	}

	if err := png.Encode(f, img); err != nil {
		f.Close()
		cleanup()
		metrics.TempFileErrors.WithLabelValues("write").Inc()
		return "", nil, fmt.Errorf("failed to encode temp image: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		metrics.TempFileErrors.WithLabelValues("close").Inc()
		return "", nil, fmt.Errorf("failed to close temp file: %w", err)
	}
	return path, cleanup, nil
}

// importPage импортирует страницу n исходного файла как фон новой страницы
func importPage(pdf *fpdf.Fpdf, imp *gofpdi.Importer, path string, n int, fallback PageSize) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: import page %d: %v", ErrPDFUnreadable, n, r)
		}
	}()

	tpl := imp.ImportPage(pdf, path, n, "/MediaBox")
	w, h := fallback.Width, fallback.Height
	if dims, ok := imp.GetPageSizes()[n]; ok {
		if mb, ok := dims["/MediaBox"]; ok && mb["w"] > 0 && mb["h"] > 0 {
			w, h = mb["w"], mb["h"]
		}
	}

	pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})
	imp.UseImportedTemplate(pdf, tpl, 0, 0, w, h)
	if pdf.Err() {
		return fmt.Errorf("%w: import page %d: %v", ErrPDFUnreadable, n, pdf.Error())
	}
	return nil
}

func writePDF(data []byte, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
