package middleware

import (
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"
)

// CORS return echo middleware that handle cors for origins matching pattern.
// A nil pattern disables it.
func CORS(pattern *regexp.Regexp) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if pattern == nil {
				return next(c)
			}
			respHeader := c.Response().Header()
			respHeader.Add("Vary", "Origin")
			origin := c.Request().Header.Get("Origin")
			if origin == "" || !pattern.MatchString(origin) {
				return next(c)
			}
			respHeader.Set("Access-Control-Allow-Origin", origin)
			respHeader.Set("Access-Control-Expose-Headers", XRequestID)
			if c.Request().Method == http.MethodOptions {
				respHeader.Set("Access-Control-Allow-Headers", "Content-Type, "+XRequestID)
				respHeader.Set("Access-Control-Allow-Methods", "OPTIONS, GET, POST, PATCH, DELETE")
				return c.NoContent(http.StatusNoContent)
			}

			return next(c)
		}
	}
}
