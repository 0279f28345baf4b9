package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RateLimit rejects write requests with a 429 HTTPError when allow returns false for the
// client IP. GET, HEAD and OPTIONS pass through.
func RateLimit(allow func(key string) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch c.Request().Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}
			if !allow(c.RealIP()) {
				return echo.NewHTTPError(http.StatusTooManyRequests)
			}
			return next(c)
		}
	}
}
