package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/danielacalcdecampo/agrocota/internal/importer"
	"github.com/danielacalcdecampo/agrocota/internal/parser"
	"github.com/danielacalcdecampo/agrocota/internal/service/excel"
	"github.com/danielacalcdecampo/agrocota/internal/service/quotation"
	"github.com/danielacalcdecampo/agrocota/internal/service/report"
	"github.com/danielacalcdecampo/agrocota/internal/service/store"
)

// Códigos de erro do envelope
const (
	CodeBadRequest    = 1001
	CodeInvalidFile   = 1002
	CodeFileTooLarge  = 1003
	CodeNoValidItems  = 1004
	CodeTitleRequired = 1005
	CodeNotFound      = 2001
	CodeInternal      = 5001
)

// MsgNoValidItems mensagem exibida quando nenhuma aba rende itens
const MsgNoValidItems = "Nenhum item válido encontrado. Verifique se a planilha tem cabeçalhos (Produto, Fornecedor, Valor) e valores numéricos."

// Handlers API de cotações
type Handlers struct {
	coordinator *importer.Coordinator
	store       *store.MemoryStore
	exporter    *excel.Exporter
	palette     *report.Palette
	logger      *slog.Logger
	maxUpload   int64
	startedAt   time.Time
}

// Config dependências dos handlers
type Config struct {
	Coordinator *importer.Coordinator
	Store       *store.MemoryStore
	Exporter    *excel.Exporter
	Palette     *report.Palette
	Logger      *slog.Logger
	MaxUploadMB int64
}

// NewHandlers cria os handlers
func NewHandlers(cfg Config) *Handlers {
	if cfg.Exporter == nil {
		cfg.Exporter = excel.NewExporter()
	}
	if cfg.Palette == nil {
		cfg.Palette = report.NewPalette()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 20
	}
	return &Handlers{
		coordinator: cfg.Coordinator,
		store:       cfg.Store,
		exporter:    cfg.Exporter,
		palette:     cfg.Palette,
		logger:      cfg.Logger,
		maxUpload:   cfg.MaxUploadMB << 20,
		startedAt:   time.Now(),
	}
}

// RegisterRoutes registra as rotas sob /api
func (h *Handlers) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/status", h.GetStatus)

	// importação
	router.POST("/quotations/preview", h.PreviewQuotation)
	router.POST("/quotations", h.CreateQuotation)
	router.POST("/quotations/stream", h.CreateQuotationStream)

	// rascunhos
	router.GET("/quotations", h.ListQuotations)
	router.GET("/quotations/:id", h.GetQuotation)
	router.DELETE("/quotations/:id", h.DeleteQuotation)

	// comparativo
	router.GET("/quotations/:id/report", h.GetReport)
	router.GET("/quotations/:id/export", h.ExportReport)
	router.GET("/shared/:token", h.GetShared)
}

// Response envelope comum
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func errorResponse(c *gin.Context, status, code int, message string) {
	c.JSON(status, Response{
		Code:    code,
		Message: message,
	})
}

// errorWithData erro que ainda carrega dados (ex.: prévia com falha)
func errorWithData(c *gin.Context, status, code int, message string, data interface{}) {
	c.JSON(status, Response{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// StatusResponse estado do serviço
type StatusResponse struct {
	Quotations int    `json:"quotations"`
	Uptime     string `json:"uptime"`
	MaxUpload  int64  `json:"maxUploadBytes"`
}

// GetStatus GET /api/status
func (h *Handlers) GetStatus(c *gin.Context) {
	success(c, StatusResponse{
		Quotations: h.store.Count(),
		Uptime:     time.Since(h.startedAt).Truncate(time.Second).String(),
		MaxUpload:  h.maxUpload,
	})
}

// upload arquivo enviado no campo "file"
type upload struct {
	filename string
	data     []byte
}

// readUpload lê o campo "file" respeitando o limite de tamanho
// Já responde ao cliente quando ok=false.
func (h *Handlers) readUpload(c *gin.Context) (upload, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+1<<20)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			errorResponse(c, http.StatusRequestEntityTooLarge, CodeFileTooLarge, h.tooLargeMessage())
			return upload{}, false
		}
		errorResponse(c, http.StatusBadRequest, CodeBadRequest, "envie a planilha no campo \"file\"")
		return upload{}, false
	}
	defer file.Close()

	if header.Size > h.maxUpload {
		errorResponse(c, http.StatusRequestEntityTooLarge, CodeFileTooLarge, h.tooLargeMessage())
		return upload{}, false
	}

	content, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, CodeInvalidFile, "falha ao ler o arquivo")
		return upload{}, false
	}
	if int64(len(content)) > h.maxUpload {
		errorResponse(c, http.StatusRequestEntityTooLarge, CodeFileTooLarge, h.tooLargeMessage())
		return upload{}, false
	}
	return upload{filename: header.Filename, data: content}, true
}

func (h *Handlers) tooLargeMessage() string {
	return fmt.Sprintf("arquivo muito grande, máximo %d MB", h.maxUpload>>20)
}

// importError traduz erros da importação em status HTTP
func (h *Handlers) importError(c *gin.Context, err error, data interface{}) {
	switch {
	case errors.Is(err, parser.ErrNoValidItems):
		errorWithData(c, http.StatusUnprocessableEntity, CodeNoValidItems, MsgNoValidItems, data)
	case errors.Is(err, quotation.ErrTitleRequired):
		errorResponse(c, http.StatusBadRequest, CodeTitleRequired, err.Error())
	case errors.Is(err, excel.ErrUnsupportedFormat), errors.Is(err, excel.ErrEmptyWorkbook):
		errorResponse(c, http.StatusBadRequest, CodeInvalidFile, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		errorResponse(c, http.StatusRequestTimeout, CodeInternal, "requisição cancelada")
	default:
		h.logger.Warn("import failed", "err", err)
		errorResponse(c, http.StatusBadRequest, CodeInvalidFile, "falha ao ler a planilha: "+err.Error())
	}
}
