package overlay

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// RotateImage поворачивает изображение против часовой стрелки с расширением
// холста до габаритов повернутого изображения. Фон прозрачный.
func RotateImage(src image.Image, degrees float64) *image.NRGBA {
	b := src.Bounds()
	deg := NormalizeAngle(degrees)
	if deg == 0 {
		dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		return dst
	}

	w, h := float64(b.Dx()), float64(b.Dy())
	bw, bh := RotatedBounds(w, h, deg)
	nw := int(math.Ceil(bw - 1e-6))
	nh := int(math.Ceil(bh - 1e-6))
	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))

	sin, cos := sinCos(deg)
	cx := float64(b.Min.X) + w/2
	cy := float64(b.Min.Y) + h/2
	ncx := float64(nw) / 2
	ncy := float64(nh) / 2

	// В координатах с осью y вниз поворот против часовой стрелки:
	// x' = x*cos + y*sin, y' = -x*sin + y*cos относительно центра
	s2d := f64.Aff3{
		cos, sin, ncx - cos*cx - sin*cy,
		-sin, cos, ncy + sin*cx - cos*cy,
	}
	draw.BiLinear.Transform(dst, s2d, src, b, draw.Over, nil)
	return dst
}
