package middleware

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	log "github.com/nguyentranbao-ct/catalog/pkg/logger/log_context"
)

// XRequestID is the header carrying the request id in both directions.
const XRequestID = "x-request-id"

type requestIDKey struct{}

// GetRequestID returns the id assigned by RequestID, or the incoming header
// when the middleware has not run.
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(XRequestID).(string); ok && id != "" {
		return id
	}
	return c.Request().Header.Get(XRequestID)
}

// RequestIDFromContext returns the id stored on a request context.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestID keeps the caller's x-request-id or assigns a uuid, and makes it
// visible to handlers, context logging and the response header.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(XRequestID)
			if id == "" {
				id = uuid.NewString()
			}

			ctx := context.WithValue(c.Request().Context(), requestIDKey{}, id)
			ctx = log.With(ctx, "request_id", id)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set(XRequestID, id)
			c.Response().Header().Set(XRequestID, id)
			return next(c)
		}
	}
}
