// Package api exposes the search and catalog HTTP endpoints
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/motormatch/motormatch/internal/cache"
	"github.com/motormatch/motormatch/internal/catalog"
	"github.com/motormatch/motormatch/internal/intent"
	"github.com/motormatch/motormatch/internal/model"
	"github.com/motormatch/motormatch/internal/score"
	"github.com/motormatch/motormatch/internal/store"
)

// Storage is the slice of the store the API needs. It is nil in catalog-only
// mode; storage-backed endpoints then answer 503.
type Storage interface {
	Ping(ctx context.Context) error
	ListByVehicle(ctx context.Context, vehicleID string) ([]model.Listing, error)
	ListRecentActive(ctx context.Context, limit int) ([]model.Listing, error)
	ListRuns(ctx context.Context, limit int) ([]store.IngestionRun, error)
	AddToWaitlist(ctx context.Context, email, source string) error
}

// Server wires the search pipeline behind HTTP
type Server struct {
	echo      *echo.Echo
	catalog   *catalog.Catalog
	engine    *score.Engine
	extractor *intent.Extractor
	storage   Storage
	results   cache.Cache
	logger    *zap.Logger
	cfg       model.Config
}

// New assembles the server and its routes
func New(cat *catalog.Catalog, extractor *intent.Extractor, storage Storage, results cache.Cache, logger *zap.Logger, cfg model.Config) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status))
			return nil
		},
	}))

	s := &Server{
		echo:      e,
		catalog:   cat,
		engine:    score.NewEngine(),
		extractor: extractor,
		storage:   storage,
		results:   results,
		logger:    logger,
		cfg:       cfg,
	}

	e.GET("/health", s.handleHealth)

	api := e.Group("/api")
	api.POST("/search", s.handleSearch)
	api.POST("/refine", s.handleRefine)
	api.GET("/vehicles", s.handleVehicles)
	api.GET("/vehicles/:id", s.handleVehicle)
	api.GET("/listings/live", s.handleLiveListings)
	api.GET("/ingestion/runs", s.handleIngestionRuns)
	api.POST("/waitlist", s.handleWaitlist)

	return s
}

// Start blocks serving HTTP until Shutdown or failure
func (s *Server) Start() error {
	s.echo.Server.ReadTimeout = s.cfg.HTTP.ReadTimeout
	s.echo.Server.WriteTimeout = s.cfg.HTTP.WriteTimeout

	s.logger.Info("http server listening", zap.String("addr", s.cfg.HTTP.Addr))
	err := s.echo.Start(s.cfg.HTTP.Addr)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the routing tree for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) handleHealth(c echo.Context) error {
	status := map[string]string{"status": "ok"}

	if s.storage != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := s.storage.Ping(ctx); err != nil {
			status["status"] = "degraded"
			status["database"] = err.Error()
			return c.JSON(http.StatusOK, status)
		}
		status["database"] = "ok"
	}
	return c.JSON(http.StatusOK, status)
}
