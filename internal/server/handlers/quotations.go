package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/danielacalcdecampo/agrocota/internal/model"
	"github.com/danielacalcdecampo/agrocota/internal/service/quotation"
	"github.com/danielacalcdecampo/agrocota/internal/service/report"
	"github.com/danielacalcdecampo/agrocota/internal/service/store"
)

// QuotationSummary linha da listagem
type QuotationSummary struct {
	ID         string                `json:"id"`
	Title      string                `json:"titulo"`
	Status     model.QuotationStatus `json:"status"`
	SourceFile string                `json:"arquivo"`
	Items      int                   `json:"itens"`
	CreatedAt  time.Time             `json:"createdAt"`
}

// PreviewQuotation POST /api/quotations/preview
func (h *Handlers) PreviewQuotation(c *gin.Context) {
	up, ok := h.readUpload(c)
	if !ok {
		return
	}

	p, err := h.coordinator.Preview(c.Request.Context(), up.filename, up.data)
	if err != nil {
		h.importError(c, err, p)
		return
	}
	success(c, p)
}

// CreateQuotation POST /api/quotations
// multipart: file, titulo, observacoes, fazendaId
func (h *Handlers) CreateQuotation(c *gin.Context) {
	up, ok := h.readUpload(c)
	if !ok {
		return
	}
	var req quotation.Request
	if err := c.ShouldBind(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, CodeBadRequest, "parâmetros inválidos")
		return
	}

	q, p, err := h.coordinator.Import(c.Request.Context(), up.filename, up.data, req)
	if err != nil {
		h.importError(c, err, p)
		return
	}
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    gin.H{"quotation": q, "preview": p},
	})
}

// CreateQuotationStream POST /api/quotations/stream (SSE)
func (h *Handlers) CreateQuotationStream(c *gin.Context) {
	up, ok := h.readUpload(c)
	if !ok {
		return
	}
	var req quotation.Request
	if err := c.ShouldBind(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, CodeBadRequest, "parâmetros inválidos")
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		errorResponse(c, http.StatusInternalServerError, CodeInternal, "streaming não suportado")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	progressChan := h.coordinator.ImportStream(c.Request.Context(), up.filename, up.data, req)
	for event := range progressChan {
		eventData, err := json.Marshal(event)
		if err != nil {
			continue
		}
		// SSE: data: {json}\n\n
		fmt.Fprintf(c.Writer, "data: %s\n\n", eventData)
		flusher.Flush()
	}
}

// ListQuotations GET /api/quotations
func (h *Handlers) ListQuotations(c *gin.Context) {
	all := h.store.List()
	out := make([]QuotationSummary, 0, len(all))
	for _, q := range all {
		out = append(out, QuotationSummary{
			ID:         q.ID,
			Title:      q.Title,
			Status:     q.Status,
			SourceFile: q.SourceFile,
			Items:      len(q.Items),
			CreatedAt:  q.CreatedAt,
		})
	}
	success(c, out)
}

// GetQuotation GET /api/quotations/:id
func (h *Handlers) GetQuotation(c *gin.Context) {
	q, ok := h.lookup(c)
	if !ok {
		return
	}
	success(c, q)
}

// DeleteQuotation DELETE /api/quotations/:id
func (h *Handlers) DeleteQuotation(c *gin.Context) {
	if err := h.store.Delete(c.Param("id")); err != nil {
		h.storeError(c, err)
		return
	}
	success(c, gin.H{"deleted": true})
}

// GetReport GET /api/quotations/:id/report
func (h *Handlers) GetReport(c *gin.Context) {
	q, ok := h.lookup(c)
	if !ok {
		return
	}
	success(c, report.Build(q, h.palette))
}

// ExportReport GET /api/quotations/:id/export
func (h *Handlers) ExportReport(c *gin.Context) {
	q, ok := h.lookup(c)
	if !ok {
		return
	}

	rep := report.Build(q, h.palette)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=comparativo_%s.xlsx", q.ID))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Status(http.StatusOK)
	if err := h.exporter.WriteComparison(c.Writer, rep); err != nil {
		h.logger.Error("export failed", "id", q.ID, "err", err)
	}
}

// GetShared GET /api/shared/:token
func (h *Handlers) GetShared(c *gin.Context) {
	q, err := h.store.GetByShareToken(c.Param("token"))
	if err != nil {
		h.storeError(c, err)
		return
	}
	success(c, gin.H{
		"quotation": q,
		"report":    report.Build(q, h.palette),
	})
}

func (h *Handlers) lookup(c *gin.Context) (*model.Quotation, bool) {
	q, err := h.store.Get(c.Param("id"))
	if err != nil {
		h.storeError(c, err)
		return nil, false
	}
	return q, true
}

func (h *Handlers) storeError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		errorResponse(c, http.StatusNotFound, CodeNotFound, "cotação não encontrada")
		return
	}
	errorResponse(c, http.StatusInternalServerError, CodeInternal, err.Error())
}
