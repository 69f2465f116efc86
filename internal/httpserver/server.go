// internal/httpserver/server.go
package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	api "github.com/lavosystem/lavo-go/internal/api/v2"
	"github.com/lavosystem/lavo-go/internal/conf"
	"github.com/lavosystem/lavo-go/internal/datastore"
	"github.com/lavosystem/lavo-go/internal/errors"
	"github.com/lavosystem/lavo-go/internal/logging"
	"github.com/lavosystem/lavo-go/internal/observability"
	"github.com/lavosystem/lavo-go/internal/security"
)

// Server encapsulates the Echo server and related configuration.
type Server struct {
	Echo     *echo.Echo
	DS       datastore.Interface
	Settings *conf.Settings
	Metrics  *observability.Metrics
	API      *api.Controller

	webLogger      *slog.Logger // structured logger for web operations
	webLoggerClose func() error
}

// New initializes the HTTP server with the given settings and datastore.
func New(settings *conf.Settings, ds datastore.Interface) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.IPExtractor = echo.ExtractIPFromXFFHeader()

	metrics, err := observability.NewMetrics()
	if err != nil {
		return nil, errors.New(err).
			Component("httpserver").
			Category(errors.CategoryConfiguration).
			Build()
	}

	s := &Server{
		Echo:     e,
		DS:       ds,
		Settings: settings,
		Metrics:  metrics,
	}

	levelVar := new(slog.LevelVar)
	if settings.WebServer.Debug {
		levelVar.Set(slog.LevelDebug)
	}
	webLogger, closeFunc, err := logging.NewFileLogger("logs/web.log", "web", levelVar)
	if err != nil {
		slog.Warn("Failed to initialize web file logger, using default logger", "error", err)
		s.webLogger = slog.Default().With("service", "web")
		s.webLoggerClose = func() error { return nil }
	} else {
		s.webLogger = webLogger
		s.webLoggerClose = closeFunc
	}

	s.initMiddleware()

	tokens := security.NewTokenService(
		settings.Security.JWTSecret,
		settings.Security.TokenExpiry,
		settings.Security.ResetTokenExpiry,
	)

	apiController, err := api.New(e, ds, settings, tokens, metrics)
	if err != nil {
		return nil, err
	}
	s.API = apiController

	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	e.GET("/healthz", s.handleHealthz)

	return s, nil
}

func (s *Server) initMiddleware() {
	s.Echo.Use(middleware.Recover())
	s.Echo.Use(middleware.Gzip())
	s.Echo.Use(s.requestLogger())
}

// requestLogger records every request in the web log and the metrics registry.
func (s *Server) requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			s.Metrics.RecordHTTPRequest(req.Method, c.Path(), res.Status)
			s.webLogger.Info("request",
				"method", req.Method,
				"path", req.URL.Path,
				"status", res.Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"ip", c.RealIP(),
			)
			return nil
		}
	}
}

func (s *Server) handleHealthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Start begins listening and serving HTTP requests. It blocks until the
// listener stops.
func (s *Server) Start() error {
	addr := ":" + s.Settings.WebServer.Port
	slog.Info("Starting HTTP server", "address", addr)
	if err := s.Echo.Start(addr); err != nil {
		return errors.New(err).
			Component("httpserver").
			Category(errors.CategoryNetwork).
			Context("address", addr).
			Build()
	}
	return nil
}

// Shutdown gracefully stops the server and closes its resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.API != nil {
		s.API.Shutdown()
	}
	if s.webLoggerClose != nil {
		if err := s.webLoggerClose(); err != nil {
			slog.Warn("Failed to close web log file", "error", err)
		}
	}
	return s.Echo.Shutdown(ctx)
}
