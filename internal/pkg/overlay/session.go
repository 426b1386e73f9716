package overlay

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Options параметры масштабирования сессии
type Options struct {
	MinZoom  float64
	ZoomStep float64
}

// DefaultOptions минимальный масштаб 0.3, шаг 0.1
func DefaultOptions() Options {
	return Options{MinZoom: 0.3, ZoomStep: 0.1}
}

// Session редактирование одного PDF: добавление, перемещение,
// изменение размера и поворот изображений
type Session struct {
	id      uuid.UUID
	pdfPath string
	page    PageSize
	opts    Options

	mu         sync.Mutex
	zoom       float64
	items      []*Item
	lastAccess time.Time
}

// NewSession создает сессию для PDF со страницей указанного размера
func NewSession(pdfPath string, page PageSize, opts Options) *Session {
	if opts.MinZoom <= 0 {
		opts.MinZoom = DefaultOptions().MinZoom
	}
	if opts.ZoomStep <= 0 {
		opts.ZoomStep = DefaultOptions().ZoomStep
	}
	return &Session{
		id:         uuid.New(),
		pdfPath:    pdfPath,
		page:       page,
		opts:       opts,
		zoom:       1.0,
		lastAccess: time.Now(),
	}
}

func (s *Session) ID() uuid.UUID      { return s.id }
func (s *Session) PDFPath() string    { return s.pdfPath }
func (s *Session) PageSize() PageSize { return s.page }

// Zoom текущий масштаб
func (s *Session) Zoom() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.zoom
}

// Add добавляет изображение в позицию по умолчанию с исходным размером
func (s *Session) Add(source string, width, height float64) (Item, error) {
	if width <= 0 || height <= 0 {
		return Item{}, fmt.Errorf("%w: %vx%v", ErrInvalidSize, width, height)
	}

	it := &Item{
		ID:     uuid.New(),
		Source: source,
		Width:  width,
		Height: height,
		X:      DefaultItemX,
		Y:      DefaultItemY,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, it)
	s.touch()
	return *it, nil
}

// Move сдвигает изображение на dx, dy пикселей превью при текущем масштабе
func (s *Session) Move(id uuid.UUID, dx, dy float64) (Item, error) {
	return s.update(id, func(it *Item) error {
		it.X += dx / s.zoom
		it.Y += dy / s.zoom
		return nil
	})
}

// MoveTo ставит левый верхний угол в точку превью x, y
func (s *Session) MoveTo(id uuid.UUID, x, y float64) (Item, error) {
	return s.update(id, func(it *Item) error {
		it.X = x / s.zoom
		it.Y = y / s.zoom
		return nil
	})
}

// Resize задает новую логическую ширину, высота меняется пропорционально
func (s *Session) Resize(id uuid.UUID, newWidth float64) (Item, error) {
	if newWidth <= 0 || math.IsNaN(newWidth) || math.IsInf(newWidth, 0) {
		return Item{}, fmt.Errorf("%w: width %v", ErrInvalidSize, newWidth)
	}
	return s.update(id, func(it *Item) error {
		ratio := newWidth / it.Width
		it.Width = newWidth
		it.Height *= ratio
		return nil
	})
}

// Rotate поворачивает изображение против часовой стрелки на delta градусов
func (s *Session) Rotate(id uuid.UUID, delta float64) (Item, error) {
	return s.update(id, func(it *Item) error {
		it.Rotation = NormalizeAngle(it.Rotation + delta)
		return nil
	})
}

// Remove удаляет изображение из сессии
func (s *Session) Remove(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, it := range s.items {
		if it.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.touch()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrItemNotFound, id)
}

// SetZoom устанавливает масштаб не меньше минимального
func (s *Session) SetZoom(z float64) error {
	if math.IsNaN(z) || math.IsInf(z, 0) || z < s.opts.MinZoom-1e-9 {
		return fmt.Errorf("%w: %v (min %v)", ErrZoomOutOfRange, z, s.opts.MinZoom)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zoom = roundZoom(z)
	s.touch()
	return nil
}

// ZoomIn увеличивает масштаб на шаг
func (s *Session) ZoomIn() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zoom = roundZoom(s.zoom + s.opts.ZoomStep)
	s.touch()
	return s.zoom
}

// ZoomOut уменьшает масштаб на шаг, но не ниже минимального
func (s *Session) ZoomOut() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zoom = math.Max(s.opts.MinZoom, roundZoom(s.zoom-s.opts.ZoomStep))
	s.touch()
	return s.zoom
}

// Preview размер растра превью при текущем масштабе
func (s *Session) Preview() Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return PreviewAt(s.page, s.zoom)
}

// Mapper для текущего превью
func (s *Session) Mapper() Mapper {
	return NewMapper(s.Preview(), s.page)
}

// Items копия списка изображений
func (s *Session) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	for i, it := range s.items {
		out[i] = *it
	}
	return out
}

// Item возвращает копию изображения по id
func (s *Session) Item(id uuid.UUID) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, err := s.find(id)
	if err != nil {
		return Item{}, err
	}
	return *it, nil
}

// State снимок сессии: превью и положение каждого изображения на нем и в точках
type State struct {
	ID       uuid.UUID  `json:"id"`
	PDFPath  string     `json:"pdfPath"`
	Page     PageSize   `json:"page"`
	Zoom     float64    `json:"zoom"`
	Preview  Size       `json:"preview"`
	Items    []ItemView `json:"items"`
	Modified time.Time  `json:"modified"`
}

// State возвращает согласованный снимок сессии
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	preview := PreviewAt(s.page, s.zoom)
	mapper := NewMapper(preview, s.page)
	st := State{
		ID:       s.id,
		PDFPath:  s.pdfPath,
		Page:     s.page,
		Zoom:     s.zoom,
		Preview:  preview,
		Items:    make([]ItemView, len(s.items)),
		Modified: s.lastAccess,
	}
	for i, it := range s.items {
		p := it.Placement(s.zoom)
		st.Items[i] = ItemView{
			Item:       *it,
			CanvasX:    p.CanvasX,
			CanvasY:    p.CanvasY,
			CanvasW:    p.Width * p.Zoom,
			CanvasH:    p.Height * p.Zoom,
			PagePoints: mapper.Map(p),
		}
	}
	return st
}

// LastAccess время последнего изменения
func (s *Session) LastAccess() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccess
}

func (s *Session) update(id uuid.UUID, fn func(*Item) error) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, err := s.find(id)
	if err != nil {
		return Item{}, err
	}
	if err := fn(it); err != nil {
		return Item{}, err
	}
	s.touch()
	return *it, nil
}

func (s *Session) find(id uuid.UUID) (*Item, error) {
	for _, it := range s.items {
		if it.ID == id {
			return it, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrItemNotFound, id)
}

func (s *Session) touch() {
	s.lastAccess = time.Now()
}

// roundZoom убирает накопленную ошибку шага 0.1
func roundZoom(z float64) float64 {
	return math.Round(z*1000) / 1000
}
