package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"docgen-service-go/internal/pkg/overlay"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OverlayHandler команды редактора подписей и печатей
type OverlayHandler struct {
	manager *overlay.Manager
	root    string
}

// NewOverlayHandler создает обработчик. Непустой root ограничивает пути файлов этим каталогом.
func NewOverlayHandler(manager *overlay.Manager, root string) *OverlayHandler {
	if root != "" {
		root = filepath.Clean(root)
	}
	return &OverlayHandler{manager: manager, root: root}
}

type openSessionRequest struct {
	PDFPath string `json:"pdfPath" binding:"required"`
}

type addItemRequest struct {
	Source string `json:"source" binding:"required"`
}

type moveRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

type resizeRequest struct {
	Width float64 `json:"width" binding:"required"`
}

type rotateRequest struct {
	Degrees float64 `json:"degrees"`
}

type zoomRequest struct {
	Zoom *float64 `json:"zoom"`
	// Step "in" или "out" меняет масштаб на один шаг
	Step string `json:"step"`
}

type saveRequest struct {
	Output string `json:"output" binding:"required"`
}

// resolve проверяет, что путь не выходит за root
func (h *OverlayHandler) resolve(p string) (string, error) {
	if h.root == "" {
		return p, nil
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(h.root, p)
	}
	p = filepath.Clean(p)
	rel, err := filepath.Rel(h.root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrPathNotAllowed, p)
	}
	return p, nil
}

func (h *OverlayHandler) session(c *gin.Context) (*overlay.Session, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, fmt.Errorf("%w: %s", overlay.ErrSessionNotFound, c.Param("id")))
		return nil, false
	}
	s, err := h.manager.Get(id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return s, true
}

func itemID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("item"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", overlay.ErrItemNotFound, c.Param("item"))
	}
	return id, nil
}

// Open открывает сессию для PDF
func (h *OverlayHandler) Open(c *gin.Context) {
	var req openSessionRequest
	if !bindJSON(c, &req) {
		return
	}
	path, err := h.resolve(req.PDFPath)
	if err != nil {
		respondError(c, err)
		return
	}
	s, err := h.manager.Open(path)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s.State())
}

// Get состояние сессии
func (h *OverlayHandler) Get(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.State())
}

// Close закрывает сессию без сохранения
func (h *OverlayHandler) Close(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := h.manager.Close(s.ID()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddItem добавляет изображение
func (h *OverlayHandler) AddItem(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req addItemRequest
	if !bindJSON(c, &req) {
		return
	}
	source, err := h.resolve(req.Source)
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := h.manager.AddImage(c.Request.Context(), s.ID(), source); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s.State())
}

// itemCommand выполняет команду над изображением и отвечает состоянием сессии
func (h *OverlayHandler) itemCommand(c *gin.Context, req any, apply func(s *overlay.Session, id uuid.UUID) error) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	id, err := itemID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if req != nil && !bindJSON(c, req) {
		return
	}
	if err := apply(s, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.State())
}

// Move сдвигает изображение на dx, dy пикселей превью
func (h *OverlayHandler) Move(c *gin.Context) {
	var req moveRequest
	h.itemCommand(c, &req, func(s *overlay.Session, id uuid.UUID) error {
		_, err := s.Move(id, req.DX, req.DY)
		return err
	})
}

// Resize меняет ширину с сохранением пропорций
func (h *OverlayHandler) Resize(c *gin.Context) {
	var req resizeRequest
	h.itemCommand(c, &req, func(s *overlay.Session, id uuid.UUID) error {
		_, err := s.Resize(id, req.Width)
		return err
	})
}

// Rotate поворачивает изображение на degrees против часовой стрелки
func (h *OverlayHandler) Rotate(c *gin.Context) {
	var req rotateRequest
	h.itemCommand(c, &req, func(s *overlay.Session, id uuid.UUID) error {
		_, err := s.Rotate(id, req.Degrees)
		return err
	})
}

// RemoveItem удаляет изображение
func (h *OverlayHandler) RemoveItem(c *gin.Context) {
	h.itemCommand(c, nil, func(s *overlay.Session, id uuid.UUID) error {
		return s.Remove(id)
	})
}

// Zoom задает масштаб или меняет его на шаг
func (h *OverlayHandler) Zoom(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req zoomRequest
	if !bindJSON(c, &req) {
		return
	}
	switch {
	case req.Zoom != nil:
		if err := s.SetZoom(*req.Zoom); err != nil {
			respondError(c, err)
			return
		}
	case req.Step == "in":
		s.ZoomIn()
	case req.Step == "out":
		s.ZoomOut()
	default:
		respondError(c, errors.Join(ErrInvalidRequest, errors.New(`either "zoom" or "step" ("in"/"out") is required`)))
		return
	}
	c.JSON(http.StatusOK, s.State())
}

// Save встраивает изображения и пишет результат в output
func (h *OverlayHandler) Save(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req saveRequest
	if !bindJSON(c, &req) {
		return
	}
	output, err := h.resolve(req.Output)
	if err != nil {
		respondError(c, err)
		return
	}

	report, err := h.manager.Save(c.Request.Context(), s.ID(), output)
	if err != nil {
		if report != nil && errors.Is(err, overlay.ErrNothingEmbedded) {
			c.JSON(errorStatus(err), gin.H{"error": err.Error(), "report": report})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
