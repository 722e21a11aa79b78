package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/danielacalcdecampo/agrocota/internal/config"
	"github.com/danielacalcdecampo/agrocota/internal/importer"
	"github.com/danielacalcdecampo/agrocota/internal/server/handlers"
	"github.com/danielacalcdecampo/agrocota/internal/service/excel"
	"github.com/danielacalcdecampo/agrocota/internal/service/quotation"
	"github.com/danielacalcdecampo/agrocota/internal/service/report"
	"github.com/danielacalcdecampo/agrocota/internal/service/store"
)

// Server servidor HTTP
type Server struct {
	router   *gin.Engine
	store    *store.MemoryStore
	handlers *handlers.Handlers
	logger   *slog.Logger
}

// NewServer monta o servidor a partir da configuração
func NewServer(cfg *config.AppConfig, logger *slog.Logger) (*Server, error) {
	devMode := cfg.Server.DevMode
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = slog.Default()
	}

	engine, err := cfg.NewEngine()
	if err != nil {
		return nil, err
	}

	st := store.NewMemoryStore()
	coordinator := importer.NewCoordinator(
		excel.NewReader(excel.ReaderOptions{FillMergedCells: cfg.Ingest.FillMergedCells}),
		engine,
		quotation.NewBuilder(),
		st,
		importer.Options{PreviewLimit: cfg.Ingest.SummaryPreviewLimit, Logger: logger},
	)

	h := handlers.NewHandlers(handlers.Config{
		Coordinator: coordinator,
		Store:       st,
		Exporter:    excel.NewExporter(),
		Palette:     report.NewPalette(),
		Logger:      logger,
		MaxUploadMB: cfg.Excel.MaxUploadMB,
	})

	s := &Server{
		router:   gin.New(),
		store:    st,
		handlers: h,
		logger:   logger,
	}
	s.setupRoutes(devMode)

	return s, nil
}

// setupRoutes middlewares + rotas
func (s *Server) setupRoutes(devMode bool) {
	s.router.Use(gin.Recovery(), s.requestLogger())

	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	api := s.router.Group("/api")
	{
		s.handlers.RegisterRoutes(api)
	}

	if devMode {
		// desenvolvimento: front-end servido pelo vite
		s.router.NoRoute(func(c *gin.Context) {
			c.Redirect(http.StatusTemporaryRedirect, "http://localhost:5173"+c.Request.URL.Path)
		})
	}
}

// requestLogger log de acesso via slog
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"size", c.Writer.Size(),
		)
	}
}

// Handler http.Handler do servidor (usado nos testes)
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run inicia o servidor
func (s *Server) Run(addr string) error {
	s.logger.Info("server listening", "addr", addr)
	return s.router.Run(addr)
}

// GetStore armazenamento (usado nos testes)
func (s *Server) GetStore() *store.MemoryStore {
	return s.store
}
