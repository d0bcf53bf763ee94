package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	pagemw "github.com/cinetrack/cinetrack/internal/api/middleware"
	"github.com/cinetrack/cinetrack/internal/metadata"
	"github.com/cinetrack/cinetrack/internal/metadata/tmdb"
	"github.com/cinetrack/cinetrack/internal/watchlist"
)

// pageData is shared by every rendered page.
type pageData struct {
	CurrentPage string
	Title       string
}

type indexView struct {
	pageData
	TrendingMovies []tmdb.Payload
	TrendingTV     []tmdb.Payload
	Searched       bool
	Query          string
	SearchResults  []tmdb.Payload
}

type watchlistView struct {
	pageData
	Category watchlist.Category
	Items    []watchlist.Item
}

type resultView struct {
	pageData
	Page     *metadata.SearchResultPage
	Filter   string
	HasPrev  bool
	HasNext  bool
	PrevPage int
	NextPage int
}

type detailsView struct {
	pageData
	Media   *metadata.AggregatedMedia
	IsMovie bool
}

type errorView struct {
	pageData
	Status  int
	Message string
}

func (s *Server) page(c echo.Context, title string) pageData {
	return pageData{CurrentPage: pagemw.GetCurrentPage(c), Title: title}
}

// index renders this week's trending movies and TV shows. Either lookup failing
// fails the whole page.
// GET /
func (s *Server) index(c echo.Context) error {
	ctx := c.Request().Context()

	movies, err := s.metadataService.FetchTrending(ctx, metadata.MediaTypeMovie)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Could not load trending titles.").SetInternal(err)
	}
	tv, err := s.metadataService.FetchTrending(ctx, metadata.MediaTypeTV)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Could not load trending titles.").SetInternal(err)
	}

	return c.Render(http.StatusOK, "index", indexView{
		pageData:       s.page(c, ""),
		TrendingMovies: movies,
		TrendingTV:     tv,
	})
}

// watchlistPage renders one category's watchlist.
// GET /movies, GET /tvshows
func (s *Server) watchlistPage(cat watchlist.Category) echo.HandlerFunc {
	return func(c echo.Context) error {
		items, err := s.watchlistStore.List(cat)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
		}
		return c.Render(http.StatusOK, "watchlist", watchlistView{
			pageData: s.page(c, cat.Title()),
			Category: cat,
			Items:    items,
		})
	}
}

// result renders one page of search results. The page number is forwarded
// to TMDB without checking it against the page count.
// GET /result?search=&filter=movie|tv&page=
func (s *Server) result(c echo.Context) error {
	query := c.QueryParam("search")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Enter something to search for.")
	}

	mediaType := metadata.MediaTypeFromFilter(c.QueryParam("filter"))
	page := parsePage(c.QueryParam("page"))

	results, err := s.metadataService.Search(c.Request().Context(), query, mediaType, page)
	if err != nil {
		return upstreamPageError(err, "Search is unavailable right now.")
	}

	return c.Render(http.StatusOK, "result", resultView{
		pageData: s.page(c, "Search"),
		Page:     results,
		Filter:   string(mediaType),
		HasPrev:  page > 1,
		HasNext:  page < results.TotalPages,
		PrevPage: page - 1,
		NextPage: page + 1,
	})
}

// quickSearch runs a movie search and shows the matches on the home page.
// GET /search?search=
func (s *Server) quickSearch(c echo.Context) error {
	query := c.QueryParam("search")
	if query == "" {
		return c.Redirect(http.StatusFound, "/")
	}

	results, err := s.metadataService.Search(c.Request().Context(), query, metadata.MediaTypeMovie, 1)
	if err != nil {
		return upstreamPageError(err, "Search is unavailable right now.")
	}

	return c.Render(http.StatusOK, "index", indexView{
		pageData:      s.page(c, "Search"),
		Searched:      true,
		Query:         query,
		SearchResults: results.Items,
	})
}

// details renders the aggregated view of one title. A failed primary lookup
// renders the error page, never a partial details page.
// GET /details/:mediaType/:id
func (s *Server) details(c echo.Context) error {
	ref := metadata.MediaRef{
		MediaType: metadata.MediaTypeFromPath(c.Param("mediaType")),
		ID:        c.Param("id"),
	}

	media, err := s.metadataService.FetchDetails(c.Request().Context(), ref)
	if err != nil {
		if errors.Is(err, metadata.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "That title could not be found.").SetInternal(err)
		}
		return upstreamPageError(err, "Details are unavailable right now.")
	}

	return c.Render(http.StatusOK, "details", detailsView{
		pageData: s.page(c, media.Details.Title()),
		Media:    media,
		IsMovie:  ref.MediaType == metadata.MediaTypeMovie,
	})
}

// parsePage reads a 1-based page number, defaulting to 1.
func parsePage(s string) int {
	page, err := strconv.Atoi(s)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// upstreamPageError maps a TMDB failure on a page request to a gateway error.
func upstreamPageError(err error, message string) error {
	code := http.StatusBadGateway
	if errors.Is(err, tmdb.ErrAPIKeyMissing) {
		code = http.StatusServiceUnavailable
	}
	return echo.NewHTTPError(code, message).SetInternal(err)
}
