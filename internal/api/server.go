// Package api serves the ranking engine over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	apimw "github.com/readmeabook/readmeabook/internal/api/middleware"
	"github.com/readmeabook/readmeabook/internal/api/ratelimit"
	"github.com/readmeabook/readmeabook/internal/config"
	"github.com/readmeabook/readmeabook/internal/indexer/search"
	"github.com/readmeabook/readmeabook/internal/logger"
)

// Server handles HTTP requests for the ranking API.
type Server struct {
	echo      *echo.Echo
	logger    zerolog.Logger
	cfg       *config.Config
	startTime time.Time

	searchService *search.Service
	limiter       *ratelimit.Limiter
	done          chan struct{}
}

// NewServer creates a new API server instance.
func NewServer(cfg *config.Config, searchService *search.Service, log zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:          e,
		logger:        logger.Component(log, "api"),
		cfg:           cfg,
		startTime:     time.Now(),
		searchService: searchService,
		done:          make(chan struct{}),
	}

	if cfg.Server.RequestsPerMinute > 0 {
		s.limiter = ratelimit.NewLimiter(cfg.Server.RequestsPerMinute, ratelimit.DefaultWindow)
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.echo.Use(middleware.Recover())

	// Request ID
	s.echo.Use(middleware.RequestID())

	// Security headers
	s.echo.Use(apimw.SecurityHeaders())

	// Candidate lists from several indexers stay well under this
	s.echo.Use(middleware.BodyLimit("8M"))

	// Request logging
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogMethod:    true,
		LogError:     true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Str("requestId", v.RequestID).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Err(v.Error).
					Msg("request error")
			} else {
				s.logger.Info().
					Str("method", v.Method).
					Str("uri", v.URI).
					Str("requestId", v.RequestID).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
			}
			return nil
		},
	}))

	// Gzip compression
	s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
	}))
}

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)

	api := s.echo.Group("/api/v1")
	if s.limiter != nil {
		api.Use(s.limiter.Middleware())
	}
	api.GET("/status", s.getStatus)

	searchHandlers := search.NewHandlers(s.searchService)
	searchHandlers.RegisterRoutes(api)
}

// Start begins listening for HTTP requests.
func (s *Server) Start(address string) error {
	s.logger.Info().Str("address", address).Msg("starting HTTP server")

	if s.limiter != nil {
		s.limiter.StartCleanup(5*time.Minute, s.done)
	}

	if err := s.echo.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")

	select {
	case <-s.done:
	default:
		close(s.done)
	}

	return s.echo.Shutdown(ctx)
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// --- Handler implementations ---

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getStatus(c echo.Context) error {
	policy := s.searchService.Policy()

	return c.JSON(http.StatusOK, map[string]interface{}{
		"version":            config.Version,
		"uptime":             time.Since(s.startTime).Round(time.Second).String(),
		"minSizeBytes":       policy.Scoring.MinSizeBytes,
		"autoSelectMinScore": policy.Selection.MinScore,
		"indexerPriorities":  len(policy.Options.IndexerPriorities),
		"flags":              len(policy.Options.FlagConfigs),
	})
}
