package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// CurrentPageKey is the context key holding the request path without its leading slash.
const CurrentPageKey = "currentPage"

// CurrentPage exposes the current page name to handlers and templates.
func CurrentPage() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(CurrentPageKey, strings.TrimPrefix(c.Request().URL.Path, "/"))
			return next(c)
		}
	}
}

// GetCurrentPage returns the page name set by CurrentPage, or "".
func GetCurrentPage(c echo.Context) string {
	page, _ := c.Get(CurrentPageKey).(string)
	return page
}
