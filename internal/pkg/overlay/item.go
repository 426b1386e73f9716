package overlay

import (
	"github.com/google/uuid"
)

// Позиция нового изображения в логических пикселях
const (
	DefaultItemX = 100.0
	DefaultItemY = 100.0
)

// Item подпись или печать, размещенная на странице.
// X, Y, Width, Height хранятся в логических пикселях (масштаб 1.0),
// поэтому положение на превью всегда согласовано с текущим масштабом.
type Item struct {
	ID       uuid.UUID `json:"id"`
	Source   string    `json:"source"`
	Rotation float64   `json:"rotation"`
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
}

// CanvasPosition положение на превью при масштабе zoom
func (it Item) CanvasPosition(zoom float64) (float64, float64) {
	return it.X * zoom, it.Y * zoom
}

// Bounds логические габариты с учетом поворота
func (it Item) Bounds() (float64, float64) {
	return RotatedBounds(it.Width, it.Height, it.Rotation)
}

// Placement положение изображения для Mapper при масштабе zoom
func (it Item) Placement(zoom float64) Placement {
	cx, cy := it.CanvasPosition(zoom)
	w, h := it.Bounds()
	return Placement{CanvasX: cx, CanvasY: cy, Width: w, Height: h, Zoom: zoom}
}

// ItemView состояние изображения на текущем превью
type ItemView struct {
	Item
	CanvasX    float64 `json:"canvasX"`
	CanvasY    float64 `json:"canvasY"`
	CanvasW    float64 `json:"canvasWidth"`
	CanvasH    float64 `json:"canvasHeight"`
	PagePoints Rect    `json:"pagePoints"`
}
