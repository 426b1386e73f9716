package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"docgen-service-go/internal/domain/document"
	"docgen-service-go/internal/pkg/assets"
	"docgen-service-go/internal/pkg/logger"
	"docgen-service-go/internal/pkg/overlay"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Определяем пользовательские ошибки
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrPathNotAllowed = errors.New("path is outside of the allowed directory")
)

// errorStatus сопоставляет ошибку домена с HTTP статусом
func errorStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrPathNotAllowed),
		errors.Is(err, document.ErrValidation),
		errors.Is(err, document.ErrUnknownDocumentType),
		errors.Is(err, document.ErrUnknownCompany),
		errors.Is(err, overlay.ErrZoomOutOfRange),
		errors.Is(err, overlay.ErrInvalidSize),
		errors.Is(err, overlay.ErrNoItems):
		return http.StatusBadRequest
	case errors.Is(err, assets.ErrLetterheadNotFound),
		errors.Is(err, overlay.ErrSessionNotFound),
		errors.Is(err, overlay.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, overlay.ErrPDFUnreadable),
		errors.Is(err, overlay.ErrImageUnreadable),
		errors.Is(err, overlay.ErrNothingEmbedded):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError отвечает JSON с текстом ошибки
func respondError(c *gin.Context, err error) {
	status := errorStatus(err)
	_ = c.Error(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}

	body := gin.H{"error": err.Error()}
	var verr *document.ValidationError
	if errors.As(err, &verr) {
		body["problems"] = verr.Problems
	}
	var nf *assets.NotFoundError
	if errors.As(err, &nf) {
		body["expected"] = nf.Expected
	}
	c.JSON(status, body)
}

// bindJSON разбирает тело запроса; пустое тело и неверный JSON дают 400
func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		if err.Error() == "EOF" {
			respondError(c, errors.Join(ErrInvalidRequest, errors.New("empty request body")))
			return false
		}
		respondError(c, errors.Join(ErrInvalidRequest, err))
		return false
	}
	return true
}

// parseLimit разбирает limit из запроса в пределах 1..1000
func parseLimit(c *gin.Context, def int) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(def)))
	if err != nil || limit < 1 || limit > 1000 {
		return def
	}
	return limit
}

// parsePeriod переводит period (1h, 6h, 24h, 7d, 30d, all) в начало периода
func parsePeriod(period string, now time.Time) time.Time {
	switch period {
	case "1h":
		return now.Add(-1 * time.Hour)
	case "6h":
		return now.Add(-6 * time.Hour)
	case "24h":
		return now.Add(-24 * time.Hour)
	case "7d":
		return now.Add(-7 * 24 * time.Hour)
	case "30d":
		return now.Add(-30 * 24 * time.Hour)
	default:
		return time.Time{}
	}
}
