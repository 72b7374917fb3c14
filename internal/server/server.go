package server

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"

	"github.com/nguyentranbao-ct/catalog/internal/config"
	pkgmdw "github.com/nguyentranbao-ct/catalog/internal/server/middleware"
	"github.com/nguyentranbao-ct/catalog/pkg/logger"
	log "github.com/nguyentranbao-ct/catalog/pkg/logger/log_context"
)

// NewEcho builds the HTTP server with every route mounted.
func NewEcho(conf *config.Config, handler Controller, pages PageController, renderer *Renderer) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = pkgmdw.NewValidator()
	e.Renderer = renderer
	e.HTTPErrorHandler = errorHandler(logger.MustNamed("http_error"))

	var corsPattern *regexp.Regexp
	if conf.Server.CORSPattern != "" {
		p, err := regexp.Compile(conf.Server.CORSPattern)
		if err != nil {
			return nil, err
		}
		corsPattern = p
	}

	logConfig := pkgmdw.LogRequestConfig{
		Logger: logger.MustNamed("http"),
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path == "/health" || path == "/metrics"
		},
		KeyAndValues: func(c echo.Context) []any {
			if id := c.Param("id"); id != "" {
				return []any{"product_id", id}
			}
			return nil
		},
	}

	e.Use(pkgmdw.Metrics())
	e.Use(pkgmdw.RequestID())
	e.Use(pkgmdw.LogRequest(logConfig))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Errorw(c.Request().Context(), "PANIC RECOVER", "error", err, "stack", string(stack))
			return nil
		},
	}))

	if conf.Server.Pprof {
		pkgmdw.PprofWrap(e)
	}

	e.GET("/health", handler.Health)

	e.GET("/", pages.Index)
	e.GET("/products", pages.ListProducts)
	e.POST("/products/refresh", pages.RefreshProducts)
	e.GET("/products/:id", pages.ShowProduct)
	e.POST("/products/:id", pages.UpdateProduct)
	e.POST("/products/:id/like", pages.LikeProduct)
	e.POST("/products/:id/delete", pages.DeleteProduct)
	e.GET("/create-product", pages.NewProduct)
	e.POST("/create-product", pages.CreateProduct)
	e.RouteNotFound("/*", pages.NotFound)

	api := e.Group("/api/v1", pkgmdw.CORS(corsPattern))
	api.GET("/products", handler.ListProducts)
	api.POST("/products", pkgmdw.WrapHandler(handler.CreateProduct))
	api.POST("/products/fetch", handler.FetchProducts)
	api.GET("/products/:id", pkgmdw.WrapHandler(handler.GetProduct))
	api.PATCH("/products/:id", pkgmdw.WrapHandler(handler.UpdateProduct))
	api.DELETE("/products/:id", pkgmdw.WrapHandler(handler.DeleteProduct))
	api.POST("/products/:id/like", pkgmdw.WrapHandler(handler.ToggleLike))
	api.GET("/categories", handler.ListCategories)

	return e, nil
}

func StartServer(
	lc fx.Lifecycle,
	sd fx.Shutdowner,
	conf *config.Config,
	e *echo.Echo,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Infow(ctx, "starting HTTP server", "addr", conf.Server.Addr)
				if err := e.Start(conf.Server.Addr); !errors.Is(err, http.ErrServerClosed) {
					log.Errorw(ctx, "HTTP server stopped", "error", err)
					_ = sd.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
}
