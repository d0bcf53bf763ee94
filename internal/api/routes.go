package api

import (
	"io/fs"
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinetrack/cinetrack/internal/api/handlers"
	"github.com/cinetrack/cinetrack/internal/metadata"
	"github.com/cinetrack/cinetrack/internal/watchlist"
)

// setupRoutes configures page, form and API routes.
func (s *Server) setupRoutes() {
	// Static assets
	s.echo.StaticFS("/css", echo.MustSubFS(s.static, "css"))
	s.echo.StaticFS("/js", echo.MustSubFS(s.static, "js"))
	s.echo.StaticFS("/assets", echo.MustSubFS(s.static, "assets"))
	s.echo.GET("/favicon.ico", s.favicon)

	// Pages
	s.echo.GET("/", s.index)
	s.echo.GET("/movies", s.watchlistPage(watchlist.CategoryMovies))
	s.echo.GET("/tvshows", s.watchlistPage(watchlist.CategoryTVShows))
	s.echo.GET("/result", s.result)
	s.echo.GET("/search", s.quickSearch)
	s.echo.GET("/details/:mediaType/:id", s.details)

	// Watchlist form endpoints
	s.echo.POST("/add-to-watchlist", s.addToWatchlist)
	s.echo.POST("/addTask", s.addTask)
	s.echo.POST("/deleteTask", s.deleteTask)
	s.echo.POST("/completeTask", s.completeTask)

	// Live watchlist events
	if s.hub != nil {
		s.echo.GET("/ws", s.hub.HandleWebSocket)
	}

	// Health check
	s.echo.GET("/health", s.healthCheck)

	// API v1 group
	api := s.echo.Group("/api/v1")
	api.GET("/status", s.getStatus)

	metadata.NewHandlers(s.metadataService).RegisterRoutes(api.Group("/metadata"))
	watchlist.NewHandlers(s.watchlistStore).RegisterRoutes(api.Group("/watchlist"))

	if s.scheduler != nil {
		handlers.NewSchedulerHandler(s.scheduler).RegisterRoutes(api.Group("/scheduler"))
	}

	if s.logs != nil {
		NewLogsHandlers(s.logs).RegisterRoutes(api.Group("/system/logs"))
	}
}

func (s *Server) favicon(c echo.Context) error {
	data, err := fs.ReadFile(s.static, "assets/favicon.svg")
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Blob(http.StatusOK, "image/svg+xml", data)
}

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// StatusResponse is the body of GET /api/v1/status.
type StatusResponse struct {
	StartTime        string `json:"startTime"`
	Uptime           string `json:"uptime"`
	GoVersion        string `json:"goVersion"`
	TMDBConfigured   bool   `json:"tmdbConfigured"`
	Movies           int    `json:"movies"`
	TVShows          int    `json:"tvshows"`
	WebSocketClients int    `json:"websocketClients"`
}

func (s *Server) getStatus(c echo.Context) error {
	resp := StatusResponse{
		StartTime:      s.startTime.Format(time.RFC3339),
		Uptime:         time.Since(s.startTime).Round(time.Second).String(),
		GoVersion:      runtime.Version(),
		TMDBConfigured: s.metadataService.Client().IsConfigured(),
		Movies:         s.watchlistStore.Len(watchlist.CategoryMovies),
		TVShows:        s.watchlistStore.Len(watchlist.CategoryTVShows),
	}
	if s.hub != nil {
		resp.WebSocketClients = s.hub.ClientCount()
	}
	return c.JSON(http.StatusOK, resp)
}
