package handlers

import (
	"net/http"
	"strconv"

	"docgen-service-go/internal/domain/document"

	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	service document.Service
}

func NewDocumentHandler(service document.Service) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// Templates список типов документов с их полями
func (h *DocumentHandler) Templates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templates": h.service.Templates()})
}

// Companies список компаний с бланками
func (h *DocumentHandler) Companies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"companies": h.service.Companies()})
}

// Generate создает PDF в каталоге результатов. С ?inline=1 возвращает сам файл.
func (h *DocumentHandler) Generate(c *gin.Context) {
	var req document.Request
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.service.Generate(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("X-Result-File-Path", res.Path)
	c.Header("X-Total-Processing-Time", strconv.FormatFloat(res.Duration.Seconds(), 'f', 3, 64))

	if inline, _ := strconv.ParseBool(c.Query("inline")); inline {
		c.Header("Content-Disposition", `inline; filename="`+res.FileName+`"`)
		c.Data(http.StatusOK, "application/pdf", res.PDF)
		return
	}
	c.JSON(http.StatusCreated, res)
}
