package overlay

import "math"

// A4 в точках и размер превью при 96 dpi
const (
	A4WidthPt   = 595.0
	A4HeightPt  = 842.0
	A4WidthPx   = 794
	A4HeightPx  = 1123
	pxPerPt     = 96.0 / 72.0
	a4Tolerance = 1.0
)

// PageSize размер страницы в точках
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Size размер растра в пикселях
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// PreviewBase размер превью страницы при масштабе 1.0.
// Для A4 это 794x1123, иначе перевод точек в пиксели при 96 dpi.
func PreviewBase(page PageSize) Size {
	if math.Abs(page.Width-A4WidthPt) <= a4Tolerance && math.Abs(page.Height-A4HeightPt) <= a4Tolerance {
		return Size{Width: A4WidthPx, Height: A4HeightPx}
	}
	return Size{
		Width:  int(math.Round(page.Width * pxPerPt)),
		Height: int(math.Round(page.Height * pxPerPt)),
	}
}

// PreviewAt размер превью при масштабе zoom (с отбрасыванием дробной части)
func PreviewAt(page PageSize, zoom float64) Size {
	base := PreviewBase(page)
	return Size{
		Width:  int(float64(base.Width) * zoom),
		Height: int(float64(base.Height) * zoom),
	}
}

// NormalizeAngle приводит угол к диапазону [0, 360)
func NormalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// sinCos возвращает точные значения для углов, кратных 90
func sinCos(deg float64) (float64, float64) {
	switch NormalizeAngle(deg) {
	case 0:
		return 0, 1
	case 90:
		return 1, 0
	case 180:
		return 0, -1
	case 270:
		return -1, 0
	}
	rad := deg * math.Pi / 180
	return math.Sin(rad), math.Cos(rad)
}

// RotatedBounds габариты прямоугольника w x h после поворота на deg градусов
func RotatedBounds(w, h, deg float64) (float64, float64) {
	sin, cos := sinCos(deg)
	return math.Abs(w*cos) + math.Abs(h*sin), math.Abs(w*sin) + math.Abs(h*cos)
}
