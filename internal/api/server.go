package api

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	pagemw "github.com/cinetrack/cinetrack/internal/api/middleware"
	"github.com/cinetrack/cinetrack/internal/config"
	"github.com/cinetrack/cinetrack/internal/metadata"
	"github.com/cinetrack/cinetrack/internal/scheduler"
	"github.com/cinetrack/cinetrack/internal/watchlist"
	"github.com/cinetrack/cinetrack/internal/websocket"
	"github.com/cinetrack/cinetrack/web"
)

// Services are the long-lived components the server routes requests to.
// Scheduler and Logs are optional.
type Services struct {
	Metadata  *metadata.Service
	Watchlist *watchlist.Store
	Hub       *websocket.Hub
	Scheduler *scheduler.Scheduler
	Logs      LogsProvider
}

// Server handles HTTP requests for CineTrack.
type Server struct {
	echo      *echo.Echo
	hub       *websocket.Hub
	logger    zerolog.Logger
	cfg       *config.Config
	startTime time.Time

	metadataService *metadata.Service
	watchlistStore  *watchlist.Store
	scheduler       *scheduler.Scheduler
	logs            LogsProvider
	static          fs.FS
}

// NewServer creates a new server instance.
func NewServer(cfg *config.Config, svc Services, logger zerolog.Logger) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	templates, err := web.TemplatesFS()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	renderer, err := NewRenderer(templates, cfg.TMDB.ImageBaseURL)
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer

	static, err := web.StaticFS()
	if err != nil {
		return nil, fmt.Errorf("failed to load static assets: %w", err)
	}

	s := &Server{
		echo:            e,
		hub:             svc.Hub,
		logger:          logger.With().Str("component", "http").Logger(),
		cfg:             cfg,
		startTime:       time.Now(),
		metadataService: svc.Metadata,
		watchlistStore:  svc.Watchlist,
		scheduler:       svc.Scheduler,
		logs:            svc.Logs,
		static:          static,
	}

	e.HTTPErrorHandler = s.httpErrorHandler

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.echo.Use(middleware.Recover())

	// Request ID
	s.echo.Use(middleware.RequestID())

	s.echo.Use(pagemw.SecurityHeaders("/api", "/add-to-watchlist", "/addTask", "/deleteTask", "/completeTask"))
	s.echo.Use(pagemw.CurrentPage())

	// Request logging
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogMethod:    true,
		LogError:     true,
		LogRequestID: true,
		HandleError:  true,
		Skipper: func(c echo.Context) bool {
			return isStaticPath(c.Request().URL.Path)
		},
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Str("requestId", v.RequestID).
					Err(v.Error).
					Msg("request error")
			} else {
				s.logger.Info().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Str("requestId", v.RequestID).
					Msg("request")
			}
			return nil
		},
	}))

	// Gzip compression
	s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			// Skip compression for WebSocket
			return c.Request().Header.Get("Upgrade") == "websocket"
		},
	}))
}

func isStaticPath(path string) bool {
	for _, prefix := range []string{"/css/", "/js/", "/assets/", "/favicon.ico"} {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Start begins listening for HTTP requests.
func (s *Server) Start(address string) error {
	s.logger.Info().Str("address", address).Msg("starting HTTP server")
	return s.echo.Start(address)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// httpErrorHandler renders the error page for browser page requests and
// falls back to echo's JSON handling everywhere else.
func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	req := c.Request()
	if req.Method != http.MethodGet || strings.HasPrefix(req.URL.Path, "/api") {
		s.echo.DefaultHTTPErrorHandler(err, c)
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(code)
		}
	}

	view := errorView{
		pageData: s.page(c, http.StatusText(code)),
		Status:   code,
		Message:  message,
	}
	if renderErr := c.Render(code, "error", view); renderErr != nil {
		s.logger.Error().Err(renderErr).Msg("Failed to render error page")
		s.echo.DefaultHTTPErrorHandler(err, c)
	}
}
