package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"docgen-service-go/internal/pkg/format"
	"docgen-service-go/internal/pkg/layout"

	"codeberg.org/go-pdf/fpdf"
	"go.uber.org/zap"
)

// Stage этап вывода документа. Этапы проходятся строго по порядку.
type Stage int

const (
	StageStart Stage = iota
	StagePageCreated
	StageHeaderWritten
	StageLineItemsWritten
	StageTotalsWritten
	StageOverlaysApplied
	StageFlushed
)

var stageNames = [...]string{
	"start",
	"page_created",
	"header_written",
	"line_items_written",
	"totals_written",
	"overlays_applied",
	"flushed",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// Геометрия страницы A4 в мм
const (
	PageWidth  = 210.0
	PageHeight = 297.0
	PageMargin = 15.0

	// ContentTop начало содержимого под бланком
	ContentTop = 60.0
	// FallbackTop начало содержимого, если бланк не удалось нарисовать
	FallbackTop = 50.0

	fontFamily = "Arial"
)

// ImageSource читает файлы изображений
type ImageSource interface {
	Read(ctx context.Context, path string) ([]byte, error)
}

// CanvasOptions параметры оформления одного документа
type CanvasOptions struct {
	Company string
	// Letterhead путь к бланку; пустой путь означает вывод без бланка
	Letterhead string
	Signature  string
	Stamp      string
	Images     ImageSource

	Formatter   *format.Formatter
	Style       InvoiceStyle
	DigitSniff  bool
	WordsSuffix string
	Logger      *zap.Logger
}

// Canvas страница документа поверх fpdf с явной последовательностью этапов
type Canvas struct {
	ctx   context.Context
	pdf   *fpdf.Fpdf
	tr    func(string) string
	opts  CanvasOptions
	stage Stage
	log   *zap.Logger
	rows  map[string]int

	// drawing этап, который сейчас рисуется; pages страницы, задетые каждым этапом
	drawing Stage
	pages   map[Stage]map[int]bool
	placed  []PlacedImage
}

// PlacedImage изображение, выведенное поверх содержимого
type PlacedImage struct {
	Path string
	Page int
	Rect layout.Rect
}

// NewCanvas создает документ A4 в миллиметрах
func NewCanvas(ctx context.Context, opts CanvasOptions) *Canvas {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Formatter == nil {
		opts.Formatter = format.New(format.DefaultNumberFormat(), format.RoundThenConvert)
	}
	if opts.Images == nil {
		opts.Images = fileSource{}
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(PageMargin, PageMargin, PageMargin)
	pdf.SetAutoPageBreak(true, PageMargin)
	pdf.SetCreator("docgen-service", false)

	return &Canvas{
		ctx:   ctx,
		pdf:   pdf,
		tr:    pdf.UnicodeTranslatorFromDescriptor(""),
		opts:  opts,
		log:   opts.Logger,
		rows:  make(map[string]int),
		pages: make(map[Stage]map[int]bool),
	}
}

// Stage текущий этап
func (c *Canvas) Stage() Stage { return c.stage }

// Formatter форматирование сумм документа
func (c *Canvas) Formatter() *format.Formatter { return c.opts.Formatter }

// Style вариант оформления счета
func (c *Canvas) Style() InvoiceStyle { return c.opts.Style }

// Company название компании
func (c *Canvas) Company() string { return c.opts.Company }

// PageCount число страниц документа
func (c *Canvas) PageCount() int { return c.pdf.PageCount() }

// StagePages номера страниц, на которых рисовал этап, по возрастанию
func (c *Canvas) StagePages(s Stage) []int {
	out := make([]int, 0, len(c.pages[s]))
	for p := range c.pages[s] {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// Placed подпись и печать в порядке вывода
func (c *Canvas) Placed() []PlacedImage { return c.placed }

func (c *Canvas) mark() {
	p := c.pdf.PageNo()
	if p == 0 {
		return
	}
	if c.pages[c.drawing] == nil {
		c.pages[c.drawing] = make(map[int]bool)
	}
	c.pages[c.drawing][p] = true
}

// Rows количество выведенных строк таблиц по виду: data или filler
func (c *Canvas) Rows() map[string]int { return c.rows }

func (c *Canvas) enter(to Stage) error {
	if c.stage != to-1 {
		return fmt.Errorf("%w: %s after %s", ErrStageOrder, to, c.stage)
	}
	c.stage = to
	return nil
}

func (c *Canvas) step(to Stage, draw func() error) error {
	if c.stage != to-1 {
		return fmt.Errorf("%w: %s after %s", ErrStageOrder, to, c.stage)
	}
	c.drawing = to
	if draw != nil {
		if err := draw(); err != nil {
			return err
		}
	}
	if err := c.pdf.Error(); err != nil {
		return fmt.Errorf("failed to draw %s: %w", to, err)
	}
	c.stage = to
	return nil
}

// CreatePage добавляет страницу и растягивает бланк на всю ее площадь
func (c *Canvas) CreatePage() error {
	if err := c.enter(StagePageCreated); err != nil {
		return err
	}
	c.drawing = StagePageCreated
	c.pdf.AddPage()
	c.mark()

	top := FallbackTop
	if c.opts.Letterhead != "" {
		if err := c.image(c.opts.Letterhead, 0, 0, PageWidth, PageHeight); err != nil {
			c.log.Warn("letterhead could not be drawn, using default margin",
				zap.String("letterhead", c.opts.Letterhead),
				zap.Error(err))
		} else {
			top = ContentTop
		}
	}
	c.pdf.SetY(top)
	return nil
}

// Header выводит шапку документа
func (c *Canvas) Header(draw func() error) error {
	return c.step(StageHeaderWritten, draw)
}

// LineItems выводит таблицы и основной текст
func (c *Canvas) LineItems(draw func() error) error {
	return c.step(StageLineItemsWritten, draw)
}

// Totals выводит итоги
func (c *Canvas) Totals(draw func() error) error {
	return c.step(StageTotalsWritten, draw)
}

// ApplyOverlays добавляет подпись, печать и строку с названием компании под ними.
// Отсутствующие файлы подписи и печати пропускаются. Изображение, не
// помещающееся до нижнего поля, переносится на новую страницу.
func (c *Canvas) ApplyOverlays() error {
	return c.step(StageOverlaysApplied, func() error {
		c.pdf.Ln(15)
		if c.opts.Signature != "" {
			if err := c.overlay(c.opts.Signature, 120, 60); err != nil {
				c.log.Warn("signature skipped", zap.String("path", c.opts.Signature), zap.Error(err))
			}
			c.pdf.Ln(20)
		}
		if c.opts.Stamp != "" {
			if err := c.overlay(c.opts.Stamp, 140, 40); err != nil {
				c.log.Warn("stamp skipped", zap.String("path", c.opts.Stamp), zap.Error(err))
			}
		}

		c.Font("B", 12)
		c.EnsureSpace(10)
		c.Cell(0, 10, strings.ToUpper(c.opts.Company), "", 1, "L")
		return nil
	})
}

// overlay выводит изображение шириной w в текущей строке и сдвигает позицию под него
func (c *Canvas) overlay(path string, x, w float64) error {
	info, err := c.register(path)
	if err != nil {
		return err
	}
	h := w * info.Height() / info.Width()
	c.EnsureSpace(h)
	y := c.pdf.GetY()
	if err := c.draw(path, x, y, w, h); err != nil {
		return err
	}
	c.placed = append(c.placed, PlacedImage{
		Path: path,
		Page: c.pdf.PageNo(),
		Rect: layout.Rect{X: x, Y: y, W: w, H: h},
	})
	c.pdf.SetY(y + h)
	return nil
}

// EnsureSpace начинает новую страницу, если блок высотой h не помещается
// до нижнего поля. Возвращает true, если страница добавлена.
func (c *Canvas) EnsureSpace(h float64) bool {
	if c.pdf.GetY()+h <= PageHeight-PageMargin {
		return false
	}
	c.pdf.AddPage()
	return true
}

// TextHeight высота текста, выведенного текущим шрифтом в колонку ширины w
func (c *Canvas) TextHeight(text string, w, lineHeight float64) float64 {
	return float64(c.Measurer().SplitLines(text, w)) * lineHeight
}

// Flush записывает PDF в w
func (c *Canvas) Flush(w io.Writer) error {
	if c.stage != StageOverlaysApplied {
		return fmt.Errorf("%w: %s after %s", ErrStageOrder, StageFlushed, c.stage)
	}
	if err := c.pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	c.stage = StageFlushed
	return nil
}

// image рисует изображение; ошибка fpdf сбрасывается, чтобы вывод продолжился
func (c *Canvas) image(path string, x, y, w, h float64) error {
	if _, err := c.register(path); err != nil {
		return err
	}
	return c.draw(path, x, y, w, h)
}

func (c *Canvas) register(path string) (*fpdf.ImageInfoType, error) {
	data, err := c.opts.Images.Read(c.ctx, path)
	if err != nil {
		return nil, err
	}
	info := c.pdf.RegisterImageOptionsReader(path, fpdf.ImageOptions{ImageType: imageType(path)}, bytes.NewReader(data))
	if err := c.pdf.Error(); err != nil {
		c.pdf.ClearError()
		return nil, err
	}
	if info == nil || info.Width() == 0 {
		return nil, fmt.Errorf("image %s has no size", path)
	}
	return info, nil
}

func (c *Canvas) draw(path string, x, y, w, h float64) error {
	c.pdf.ImageOptions(path, x, y, w, h, false, fpdf.ImageOptions{ImageType: imageType(path)}, 0, "")
	if err := c.pdf.Error(); err != nil {
		c.pdf.ClearError()
		return err
	}
	c.mark()
	return nil
}

func imageType(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "jpeg" {
		return "jpg"
	}
	return ext
}

// Font устанавливает шрифт документа
func (c *Canvas) Font(style string, size float64) {
	c.pdf.SetFont(fontFamily, style, size)
}

// Y текущая вертикальная позиция
func (c *Canvas) Y() float64 { return c.pdf.GetY() }

// SetY переводит позицию на y у левого поля
func (c *Canvas) SetY(y float64) { c.pdf.SetY(y) }

// Ln переводит строку на h
func (c *Canvas) Ln(h float64) { c.pdf.Ln(h) }

// Cell ячейка fpdf с перекодировкой текста
func (c *Canvas) Cell(w, h float64, text, border string, ln int, align string) {
	c.pdf.CellFormat(w, h, c.tr(text), border, ln, align, false, 0, "")
	c.mark()
}

// FilledCell ячейка с серой заливкой
func (c *Canvas) FilledCell(w, h float64, text, border string, ln int, align string) {
	c.pdf.SetFillColor(230, 230, 230)
	c.pdf.CellFormat(w, h, c.tr(text), border, ln, align, true, 0, "")
	c.mark()
}

// Paragraph многострочный текст на всю ширину
func (c *Canvas) Paragraph(h float64, text, align string) {
	c.pdf.MultiCell(0, h, c.tr(text), "", align, false)
	c.mark()
}

// CellAt ячейка в точке (x, y)
func (c *Canvas) CellAt(x, y, w, h float64, text, border, align string) {
	c.pdf.SetXY(x, y)
	c.Cell(w, h, text, border, 0, align)
}

// BoxAt рамка w×h в точке (x, y) с текстом, перенесенным по ширине рамки
func (c *Canvas) BoxAt(x, y, w, h, lineHeight float64, text, align string) {
	c.pdf.Rect(x, y, w, h, "D")
	c.pdf.SetXY(x, y)
	c.pdf.MultiCell(w, lineHeight, c.tr(text), "", align, false)
	c.mark()
}

// Rule горизонтальная линия на текущей высоте
func (c *Canvas) Rule(x1, x2 float64) {
	y := c.pdf.GetY()
	c.pdf.Line(x1, y, x2, y)
	c.mark()
}

// Title заголовок документа с линией под ним
func (c *Canvas) Title(text string) {
	c.Font("B", 16)
	c.Cell(0, 10, strings.ToUpper(text), "", 1, "C")
	c.Rule(10, 200)
	c.Ln(5)
}

// Measurer измерение переноса текста текущим шрифтом
func (c *Canvas) Measurer() layout.Measurer {
	return fpdfMeasurer{pdf: c.pdf}
}

type fpdfMeasurer struct {
	pdf *fpdf.Fpdf
}

func (m fpdfMeasurer) SplitLines(text string, width float64) int {
	return len(m.pdf.SplitText(text, width))
}

type fileSource struct{}

func (fileSource) Read(_ context.Context, path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WordsSuffix окончание суммы прописью
func (c *Canvas) WordsSuffix() string {
	if c.opts.WordsSuffix == "" {
		return "rupees only"
	}
	return c.opts.WordsSuffix
}

// AlignPolicy политика выравнивания колонок таблиц
func (c *Canvas) AlignPolicy() layout.AlignPolicy {
	if c.opts.DigitSniff {
		return layout.DigitSniff
	}
	return layout.Declared
}
