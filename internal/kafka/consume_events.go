package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"go.uber.org/fx"

	"github.com/nguyentranbao-ct/catalog/internal/config"
	"github.com/nguyentranbao-ct/catalog/internal/models"
	log "github.com/nguyentranbao-ct/catalog/pkg/logger/log_context"
)

var ErrKafkaDisabled = errors.New("kafka is disabled, set KAFKA_ENABLED=true")

// NewEventPrinter writes every event as one JSON line to w.
func NewEventPrinter(w io.Writer) EventHandler {
	enc := json.NewEncoder(w)
	return EventHandlerFunc(func(ctx context.Context, event models.CatalogEvent) error {
		if err := enc.Encode(event); err != nil {
			return fmt.Errorf("write event: %w", err)
		}
		return nil
	})
}

// StartConsumeEvents runs the catalog event consumer for the lifetime of the
// fx application.
func StartConsumeEvents(
	sd fx.Shutdowner,
	lc fx.Lifecycle,
	conf *config.Config,
	handler EventHandler,
) error {
	if !conf.Kafka.Enabled {
		return ErrKafkaDisabled
	}

	consumer, err := NewConsumer(&conf.Kafka, handler)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := consumer.Start(ctx); err != nil {
					log.Errorw(ctx, "kafka consumer stopped", "error", err)
				}
				_ = sd.Shutdown()
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			return consumer.Stop(stopCtx)
		},
	})
	return nil
}
