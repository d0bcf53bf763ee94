package watchlist

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Handlers provides HTTP handlers for watchlist operations.
type Handlers struct {
	store *Store
}

// NewHandlers creates a new watchlist handlers instance.
func NewHandlers(store *Store) *Handlers {
	return &Handlers{store: store}
}

// RegisterRoutes registers watchlist routes on an Echo group.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("", h.Snapshot)
	g.GET("/:category", h.List)
	g.POST("/:category", h.Add)
	g.PUT("/:category/items/:id", h.Update)
	g.DELETE("/:category/items/:id", h.Delete)
}

// AddRequest is the body of an add request.
type AddRequest struct {
	Name string `json:"name"`
}

// UpdateRequest is the body of an update request.
type UpdateRequest struct {
	Completed bool `json:"completed"`
}

// Snapshot returns both watchlists.
// GET /api/v1/watchlist
func (h *Handlers) Snapshot(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Snapshot())
}

// List returns one watchlist in order.
// GET /api/v1/watchlist/:category
func (h *Handlers) List(c echo.Context) error {
	cat, err := ParseCategory(c.Param("category"))
	if err != nil {
		return storeError(err)
	}

	items, err := h.store.List(cat)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, items)
}

// Add appends an item.
// POST /api/v1/watchlist/:category
func (h *Handlers) Add(c echo.Context) error {
	cat, err := ParseCategory(c.Param("category"))
	if err != nil {
		return storeError(err)
	}

	var req AddRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	item, err := h.store.Append(cat, name)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusCreated, item)
}

// Update sets an item's completed flag.
// PUT /api/v1/watchlist/:category/items/:id
func (h *Handlers) Update(c echo.Context) error {
	cat, err := ParseCategory(c.Param("category"))
	if err != nil {
		return storeError(err)
	}

	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	item, err := h.store.SetCompleted(cat, c.Param("id"), req.Completed)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, item)
}

// Delete removes an item.
// DELETE /api/v1/watchlist/:category/items/:id
func (h *Handlers) Delete(c echo.Context) error {
	cat, err := ParseCategory(c.Param("category"))
	if err != nil {
		return storeError(err)
	}

	if _, err := h.store.RemoveByID(cat, c.Param("id")); err != nil {
		return storeError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func storeError(err error) error {
	switch {
	case errors.Is(err, ErrItemNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrUnknownCategory), errors.Is(err, ErrIndexOutOfRange):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
