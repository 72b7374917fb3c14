package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	pkgmdw "github.com/nguyentranbao-ct/catalog/internal/server/middleware"
	"github.com/nguyentranbao-ct/catalog/pkg/logger"
)

const apiPrefix = "/api/"

// errorHandler answers JSON for the API and health routes and an HTML error
// page everywhere else.
func errorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	jsonHandler := pkgmdw.ErrorHandler(log)
	return func(err error, c echo.Context) {
		path := c.Request().URL.Path
		if strings.HasPrefix(path, apiPrefix) || path == "/health" {
			jsonHandler(err, c)
			return
		}
		if err == nil || c.Response().Committed {
			return
		}

		page := errorPage{
			Code:    http.StatusInternalServerError,
			Message: http.StatusText(http.StatusInternalServerError),
		}
		var he *echo.HTTPError
		if errors.As(err, &he) {
			page.Code = he.Code
			page.Message = fmt.Sprint(he.Message)
		} else {
			log.Errorw("unhandled page error", "path", path, "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(page.Code)
		} else {
			err = c.Render(page.Code, "error.html", page)
		}
		if err != nil {
			log.Errorw("could not render error page", "code", page.Code, "error", err)
		}
	}
}
