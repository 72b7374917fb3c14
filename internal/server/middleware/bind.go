package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// BindAndValidate binds path params, query, and body into req and validates
// it. Validation failures are returned as a 400 ResponseError.
func BindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(req); err != nil {
		return NewValidationError(err)
	}

	return nil
}
