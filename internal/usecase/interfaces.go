package usecase

import (
	"context"

	"github.com/nguyentranbao-ct/catalog/internal/models"
)

type CatalogUsecase interface {
	List(ctx context.Context, query ListQuery) ListResult
	Get(ctx context.Context, id string) (models.Product, error)
	Create(ctx context.Context, payload models.CreateProductPayload) models.Product
	Update(ctx context.Context, id string, payload models.UpdateProductPayload) (models.Product, error)
	ToggleLike(ctx context.Context, id string) (models.Product, error)
	Delete(ctx context.Context, id string) error
	Refresh(ctx context.Context) error
	Status(ctx context.Context) Status
}
