package handlers

import (
	"net/http"
	"time"

	"docgen-service-go/internal/pkg/statistics"

	"github.com/gin-gonic/gin"
)

// StatisticsHandler история и сводка генераций
type StatisticsHandler struct {
	store statistics.Store
}

// NewStatisticsHandler создает новый обработчик статистики
func NewStatisticsHandler(store statistics.Store) *StatisticsHandler {
	return &StatisticsHandler{store: store}
}

// History последние генерации документов
func (h *StatisticsHandler) History(c *gin.Context) {
	limit := parseLimit(c, statistics.DefaultHistoryLimit)
	records, err := h.store.History(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": records, "count": len(records)})
}

// Summary сводная статистика за период (?period=1h|6h|24h|7d|30d, по умолчанию все время)
func (h *StatisticsHandler) Summary(c *gin.Context) {
	since := parsePeriod(c.Query("period"), time.Now())
	summary, err := h.store.Summary(c.Request.Context(), since)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
