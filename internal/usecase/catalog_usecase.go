package usecase

import (
	"context"
	"fmt"

	"github.com/nguyentranbao-ct/catalog/internal/models"
	"github.com/nguyentranbao-ct/catalog/internal/store"
	log "github.com/nguyentranbao-ct/catalog/pkg/logger/log_context"
)

// ListQuery carries the list view changes requested by the caller. Nil fields
// keep the current store value; page is applied after the other fields.
type ListQuery struct {
	Filter   *models.Filter
	Search   *string
	Category *string
	Page     *int
}

// Status is the load state of the catalog shown next to every screen.
type Status struct {
	Categories []string         `json:"categories"`
	View       models.ViewState `json:"view"`
	Loading    bool             `json:"loading"`
	Loaded     bool             `json:"loaded"`
	Error      string           `json:"error,omitempty"`
}

type ListResult struct {
	Page   models.Page `json:"page"`
	Status Status      `json:"status"`
}

type catalogUsecase struct {
	store *store.Store
}

func NewCatalogUsecase(s *store.Store) CatalogUsecase {
	return &catalogUsecase{store: s}
}

// ensureLoaded triggers the first fetch. A failure is kept in the store
// status, so it is only logged here.
func (u *catalogUsecase) ensureLoaded(ctx context.Context) {
	if err := u.store.EnsureLoaded(ctx); err != nil {
		log.Warnw(ctx, "initial catalog load failed", "error", err)
	}
}

func (u *catalogUsecase) List(ctx context.Context, query ListQuery) ListResult {
	u.ensureLoaded(ctx)

	if query.Filter != nil {
		u.store.SetFilter(*query.Filter)
	}
	if query.Search != nil {
		u.store.SetSearch(*query.Search)
	}
	if query.Category != nil {
		u.store.SetCategory(*query.Category)
	}
	if query.Page != nil {
		u.store.SetPage(*query.Page)
	}

	page := u.store.View()
	return ListResult{
		Page:   page,
		Status: u.Status(ctx),
	}
}

func (u *catalogUsecase) Get(ctx context.Context, id string) (models.Product, error) {
	u.ensureLoaded(ctx)
	p, ok := u.store.Get(id)
	if !ok {
		return models.Product{}, fmt.Errorf("product %s: %w", id, models.ErrNotFound)
	}
	return p, nil
}

func (u *catalogUsecase) Create(ctx context.Context, payload models.CreateProductPayload) models.Product {
	return u.store.Create(ctx, payload)
}

func (u *catalogUsecase) Update(ctx context.Context, id string, payload models.UpdateProductPayload) (models.Product, error) {
	p, ok := u.store.Update(ctx, id, payload)
	if !ok {
		return models.Product{}, fmt.Errorf("product %s: %w", id, models.ErrNotFound)
	}
	return p, nil
}

func (u *catalogUsecase) ToggleLike(ctx context.Context, id string) (models.Product, error) {
	p, ok := u.store.ToggleLike(ctx, id)
	if !ok {
		return models.Product{}, fmt.Errorf("product %s: %w", id, models.ErrNotFound)
	}
	return p, nil
}

func (u *catalogUsecase) Delete(ctx context.Context, id string) error {
	if !u.store.Delete(ctx, id) {
		return fmt.Errorf("product %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func (u *catalogUsecase) Refresh(ctx context.Context) error {
	return u.store.Fetch(ctx)
}

func (u *catalogUsecase) Status(ctx context.Context) Status {
	st := u.store.Snapshot()
	return Status{
		Categories: st.Categories,
		View:       st.View,
		Loading:    st.Loading,
		Loaded:     st.Loaded,
		Error:      st.Error,
	}
}
