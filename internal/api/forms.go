package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cinetrack/cinetrack/internal/watchlist"
)

// addToWatchlist adds a title from the details page.
// POST /add-to-watchlist (mediaTitle, isMovie)
func (s *Server) addToWatchlist(c echo.Context) error {
	cat := watchlist.CategoryFromIsMovie(c.FormValue("isMovie") == "true")

	if _, err := s.watchlistStore.Append(cat, c.FormValue("mediaTitle")); err != nil {
		return formError(err)
	}
	return c.String(http.StatusOK, http.StatusText(http.StatusOK))
}

// addTask adds a title from a watchlist page and returns to it.
// POST /addTask (task, category)
func (s *Server) addTask(c echo.Context) error {
	cat, err := watchlist.ParseCategory(c.FormValue("category"))
	if err != nil {
		return formError(err)
	}

	if _, err := s.watchlistStore.Append(cat, c.FormValue("task")); err != nil {
		return formError(err)
	}
	return c.Redirect(http.StatusFound, "/"+string(cat))
}

// deleteTask removes the item at taskId.
// POST /deleteTask (taskId, category)
func (s *Server) deleteTask(c echo.Context) error {
	cat, err := watchlist.ParseCategory(c.FormValue("category"))
	if err != nil {
		return formError(err)
	}
	index, err := parseIndex(c.FormValue("taskId"))
	if err != nil {
		return formError(err)
	}

	if _, err := s.watchlistStore.Remove(cat, index); err != nil {
		return formError(err)
	}
	return c.String(http.StatusOK, http.StatusText(http.StatusOK))
}

// completeTask sets the completed flag of the item at taskId. The category comes
// from "category", or from "isMovie" as sent by older pages.
// POST /completeTask (taskId, isCompleted, category | isMovie)
func (s *Server) completeTask(c echo.Context) error {
	cat, err := formCategory(c)
	if err != nil {
		return formError(err)
	}
	index, err := parseIndex(c.FormValue("taskId"))
	if err != nil {
		return formError(err)
	}

	if _, err := s.watchlistStore.ToggleComplete(cat, index, c.FormValue("isCompleted") == "true"); err != nil {
		return formError(err)
	}
	return c.String(http.StatusOK, http.StatusText(http.StatusOK))
}

func formCategory(c echo.Context) (watchlist.Category, error) {
	if raw := c.FormValue("category"); raw != "" {
		return watchlist.ParseCategory(raw)
	}
	if isMovie := c.FormValue("isMovie"); isMovie != "" {
		return watchlist.CategoryFromIsMovie(isMovie == "true"), nil
	}
	return "", watchlist.ErrUnknownCategory
}

// parseIndex rejects non-numeric ids as out of range.
func parseIndex(s string) (int, error) {
	index, err := strconv.Atoi(s)
	if err != nil {
		return 0, watchlist.ErrIndexOutOfRange
	}
	return index, nil
}

func formError(err error) error {
	switch {
	case errors.Is(err, watchlist.ErrIndexOutOfRange), errors.Is(err, watchlist.ErrUnknownCategory):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
