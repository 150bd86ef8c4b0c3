// Package ui serves the interactive household dashboard: an overview, statistics tables
// and charts over a district selection, plus the report and workbook downloads.
package ui

import (
	"context"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"time"

	"gohousehold/adapters/render"
	"gohousehold/internal/config"
	"gohousehold/internal/errors"
	"gohousehold/internal/household"

	"github.com/gin-gonic/gin"
)

// Server represents the dashboard web server
type Server struct {
	router    *gin.Engine
	cache     *household.Cache
	config    *config.Config
	templates *template.Template
	assets    fs.FS
	metrics   *Metrics
	chart     render.ChartConfig
	http      *http.Server
}

// DashboardChartConfig is a smaller canvas than the batch report uses
func DashboardChartConfig() render.ChartConfig {
	cfg := render.DefaultChartConfig()
	cfg.Width = cfg.Width * 3 / 4
	cfg.Height = cfg.Height * 3 / 4
	return cfg
}

// NewServer creates a dashboard over the cached table. assets must contain templates/
// and static/ directories.
func NewServer(cfg *config.Config, cache *household.Cache, assets fs.FS) (*Server, error) {
	if cfg == nil || cache == nil {
		return nil, errors.ConfigInvalid("dashboard needs a configuration and a table cache")
	}

	templates, err := parseTemplates(assets)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load dashboard templates")
	}

	s := &Server{
		router:    gin.New(),
		cache:     cache,
		config:    cfg,
		templates: templates,
		assets:    assets,
		metrics:   NewMetrics(cache),
		chart:     DashboardChartConfig(),
	}
	s.setupMiddleware()
	s.setupRoutes()

	s.http = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)

	// Charts of the current selection, and the batch report charts by file name
	s.router.GET("/charts/:file", s.handleChart)
	s.router.GET("/plots/:file", s.handlePlot)

	s.router.GET("/report", s.handleReport)
	s.router.GET("/export.xlsx", s.handleExport)

	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
}

// Handler exposes the router, mainly for httptest
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on the configured port until Shutdown is called
func (s *Server) Start() error {
	log.Printf("[Server] Starting household dashboard on http://localhost%s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "dashboard server failed")
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	log.Printf("[Server] Shutting down")
	return s.http.Shutdown(ctx)
}
