package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapper_A4Preview(t *testing.T) {
	m := NewMapper(Size{Width: 794, Height: 1123}, PageSize{Width: 595, Height: 842})

	r := m.Map(Placement{CanvasX: 100, CanvasY: 100, Width: 200, Height: 100, Zoom: 1.0})

	assert.InDelta(t, 74.9, r.X, 0.1)
	assert.InDelta(t, 74.9, r.Y, 0.1)
	assert.InDelta(t, 149.9, r.W, 0.1)
	assert.InDelta(t, 74.9, r.H, 0.1)
}

func TestMapper_ZoomedPreview(t *testing.T) {
	page := PageSize{Width: 595, Height: 842}
	m := NewMapper(PreviewAt(page, 2.0), page)

	// при масштабе 2 превью вдвое больше, позиция на нем тоже вдвое больше
	r := m.Map(Placement{CanvasX: 200, CanvasY: 200, Width: 200, Height: 100, Zoom: 2.0})

	assert.InDelta(t, 74.9, r.X, 0.1)
	assert.InDelta(t, 74.9, r.Y, 0.1)
	assert.InDelta(t, 149.9, r.W, 0.1)
	assert.InDelta(t, 74.9, r.H, 0.1)
}

func TestPreviewBase(t *testing.T) {
	tests := []struct {
		name string
		page PageSize
		want Size
	}{
		{"a4", PageSize{Width: 595, Height: 842}, Size{Width: 794, Height: 1123}},
		{"a4 exact points", PageSize{Width: 595.28, Height: 841.89}, Size{Width: 794, Height: 1123}},
		{"letter", PageSize{Width: 612, Height: 792}, Size{Width: 816, Height: 1056}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PreviewBase(tt.page))
		})
	}

	assert.Equal(t, Size{Width: 238, Height: 336}, PreviewAt(PageSize{Width: 595, Height: 842}, 0.3))
}

func TestRotatedBounds(t *testing.T) {
	w, h := RotatedBounds(200, 100, 90)
	assert.Equal(t, 100.0, w)
	assert.Equal(t, 200.0, h)

	w, h = RotatedBounds(200, 100, 180)
	assert.Equal(t, 200.0, w)
	assert.Equal(t, 100.0, h)

	w, h = RotatedBounds(100, 100, 45)
	assert.InDelta(t, 141.42, w, 0.01)
	assert.InDelta(t, 141.42, h, 0.01)
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{45, 45},
		{360, 0},
		{405, 45},
		{-45, 315},
		{-720, 0},
		{1080.5, 0.5},
	}
	for _, tt := range tests {
		got := NormalizeAngle(tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, "angle %v", tt.in)
		assert.True(t, got >= 0 && got < 360)
	}
}
