package api

import (
	"net/http"
	"time"

	"docgen-service-go/internal/api/handlers"
	"docgen-service-go/internal/domain/document"
	"docgen-service-go/internal/pkg/overlay"
	"docgen-service-go/internal/pkg/statistics"

	"github.com/gin-gonic/gin"
)

// Handlers содержит все обработчики API
type Handlers struct {
	Documents  *handlers.DocumentHandler
	Overlay    *handlers.OverlayHandler
	Statistics *handlers.StatisticsHandler

	overlay *overlay.Manager
	history statistics.Store
}

// healthChecker реализуют хранилища с собственной проверкой доступности
type healthChecker interface {
	Healthy() bool
}

// NewHandlers создает новые обработчики
func NewHandlers(service document.Service, manager *overlay.Manager, store statistics.Store, overlayRoot string) *Handlers {
	return &Handlers{
		Documents:  handlers.NewDocumentHandler(service),
		Overlay:    handlers.NewOverlayHandler(manager, overlayRoot),
		Statistics: handlers.NewStatisticsHandler(store),
		overlay:    manager,
		history:    store,
	}
}

// Health состояние сервиса
func (h *Handlers) Health(c *gin.Context) {
	history := "ok"
	if hc, ok := h.history.(healthChecker); ok && !hc.Healthy() {
		history = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"details": gin.H{
			"overlay_sessions": h.overlay.Len(),
			"history_store":    history,
		},
	})
}
