package app

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"

	"github.com/nguyentranbao-ct/catalog/internal/config"
	"github.com/nguyentranbao-ct/catalog/internal/events"
	"github.com/nguyentranbao-ct/catalog/internal/repo/fakestore"
	"github.com/nguyentranbao-ct/catalog/internal/server"
	"github.com/nguyentranbao-ct/catalog/internal/store"
	"github.com/nguyentranbao-ct/catalog/internal/usecase"
	"github.com/nguyentranbao-ct/catalog/pkg/logger"
)

// Invoke builds the application and runs funcs once every dependency is
// constructed.
func Invoke(funcs ...any) *fx.App {
	return New(fx.Invoke(funcs...))
}

func New(opts ...fx.Option) *fx.App {
	conf := config.MustLoad()
	if err := logger.Init(logger.Config{
		Level:       conf.Log.Level,
		Development: conf.Log.Development,
	}); err != nil {
		panic(err)
	}

	log := logger.MustNamed("app")
	log.Debugw("config loaded", log.Reflect("config", conf))
	return fx.New(
		fx.WithLogger(func() fxevent.Logger {
			l := &fxevent.ZapLogger{
				Logger: log.Unwrap().Desugar(),
			}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
		Providers(),
		fx.Supply(conf),
		fx.Options(opts...),
	)
}

// Providers lists every constructor of the catalog service.
func Providers() fx.Option {
	return fx.Provide(
		fakestore.NewClient,
		events.NewPublisher,
		newStore,

		usecase.NewCatalogUsecase,

		server.NewHandler,
		server.NewPageController,
		server.NewRenderer,
		server.NewEcho,
	)
}

func newStore(conf *config.Config, source fakestore.Client, publisher events.Publisher) (*store.Store, error) {
	return store.New(source, store.Options{
		PageSize:  conf.Catalog.PageSize,
		Locale:    conf.Catalog.Locale,
		Publisher: publisher,
	})
}
