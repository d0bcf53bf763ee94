package metadata

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cinetrack/cinetrack/internal/metadata/tmdb"
)

// Handlers provides HTTP handlers for metadata operations.
type Handlers struct {
	service *Service
}

// NewHandlers creates new metadata handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers the metadata routes.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("/trending/:mediaType", h.GetTrending)
	g.GET("/search", h.Search)
	g.GET("/:mediaType/:id", h.GetDetails)

	// Cache management
	g.DELETE("/cache", h.ClearCache)

	// Provider status
	g.GET("/status", h.GetStatus)
}

// GetTrending returns this week's trending titles.
// GET /api/v1/metadata/trending/:mediaType
func (h *Handlers) GetTrending(c echo.Context) error {
	mediaType, ok := parseMediaType(c.Param("mediaType"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "mediaType must be movie or tv")
	}

	results, err := h.service.FetchTrending(c.Request().Context(), mediaType)
	if err != nil {
		return upstreamError(err)
	}
	return c.JSON(http.StatusOK, results)
}

// Search runs a paged title search.
// GET /api/v1/metadata/search?query=...&filter=movie|tv&page=...
func (h *Handlers) Search(c echo.Context) error {
	query := c.QueryParam("query")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter is required")
	}

	page := 1
	if pageStr := c.QueryParam("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p >= 1 {
			page = p
		}
	}

	result, err := h.service.Search(c.Request().Context(), query, MediaTypeFromFilter(c.QueryParam("filter")), page)
	if err != nil {
		return upstreamError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// GetDetails returns the aggregated details for a title.
// GET /api/v1/metadata/:mediaType/:id
func (h *Handlers) GetDetails(c echo.Context) error {
	ref := MediaRef{
		MediaType: MediaTypeFromPath(c.Param("mediaType")),
		ID:        c.Param("id"),
	}

	result, err := h.service.FetchDetails(c.Request().Context(), ref)
	if err != nil {
		return upstreamError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// ClearCache clears the metadata cache.
// DELETE /api/v1/metadata/cache
func (h *Handlers) ClearCache(c echo.Context) error {
	h.service.ClearCache()
	return c.NoContent(http.StatusNoContent)
}

// StatusResponse represents the metadata service status.
type StatusResponse struct {
	Name       string `json:"name"`
	Configured bool   `json:"configured"`
}

// GetStatus returns whether the TMDB client has an API key.
// GET /api/v1/metadata/status
func (h *Handlers) GetStatus(c echo.Context) error {
	client := h.service.Client()
	return c.JSON(http.StatusOK, StatusResponse{
		Name:       client.Name(),
		Configured: client.IsConfigured(),
	})
}

func parseMediaType(s string) (MediaType, bool) {
	switch s {
	case string(MediaTypeMovie):
		return MediaTypeMovie, true
	case string(MediaTypeTV):
		return MediaTypeTV, true
	}
	return "", false
}

// upstreamError maps a TMDB failure to an HTTP status.
func upstreamError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, tmdb.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, tmdb.ErrAPIKeyMissing):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "TMDB API key is not configured")
	case errors.Is(err, tmdb.ErrRateLimited):
		return echo.NewHTTPError(http.StatusTooManyRequests, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
}
