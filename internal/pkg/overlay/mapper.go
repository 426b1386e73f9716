package overlay

// Placement положение изображения на текущем превью
type Placement struct {
	// CanvasX, CanvasY левый верхний угол на превью в пикселях при текущем масштабе
	CanvasX, CanvasY float64
	// Width, Height логический размер (без масштаба), уже с учетом поворота
	Width, Height float64
	Zoom          float64
}

// Rect прямоугольник в точках PDF, начало координат сверху слева
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Mapper переводит пиксели превью в точки страницы
type Mapper struct {
	PreviewWidthPx  float64
	PreviewHeightPx float64
	PageWidthPt     float64
	PageHeightPt    float64
}

// NewMapper создает Mapper для превью указанного размера
func NewMapper(preview Size, page PageSize) Mapper {
	return Mapper{
		PreviewWidthPx:  float64(preview.Width),
		PreviewHeightPx: float64(preview.Height),
		PageWidthPt:     page.Width,
		PageHeightPt:    page.Height,
	}
}

// Scale коэффициенты пиксель -> точка по осям
func (m Mapper) Scale() (float64, float64) {
	return m.PageWidthPt / m.PreviewWidthPx, m.PageHeightPt / m.PreviewHeightPx
}

// Map переводит положение и размер изображения в точки.
// Позиция = canvas * scale, размер = logical * zoom * scale.
func (m Mapper) Map(p Placement) Rect {
	sx, sy := m.Scale()
	return Rect{
		X: p.CanvasX * sx,
		Y: p.CanvasY * sy,
		W: p.Width * p.Zoom * sx,
		H: p.Height * p.Zoom * sy,
	}
}
