package kafka

import (
	"context"

	"github.com/nguyentranbao-ct/catalog/internal/models"
)

// Consumer defines the interface for Kafka event consumption
type Consumer interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// EventHandler handles one decoded catalog event
type EventHandler interface {
	HandleEvent(ctx context.Context, event models.CatalogEvent) error
}

type EventHandlerFunc func(ctx context.Context, event models.CatalogEvent) error

func (f EventHandlerFunc) HandleEvent(ctx context.Context, event models.CatalogEvent) error {
	return f(ctx, event)
}
