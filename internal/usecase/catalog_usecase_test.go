package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentranbao-ct/catalog/internal/models"
	"github.com/nguyentranbao-ct/catalog/internal/store"
	"github.com/nguyentranbao-ct/catalog/pkg/util"
)

type stubSource struct {
	products []models.RemoteProduct
	err      error
	calls    int
}

func (s *stubSource) ListProducts(context.Context) ([]models.RemoteProduct, error) {
	s.calls++
	return s.products, s.err
}

func newUsecase(t *testing.T, src *stubSource) CatalogUsecase {
	t.Helper()
	s, err := store.New(src, store.Options{PageSize: 8, Locale: "en"})
	require.NoError(t, err)
	return NewCatalogUsecase(s)
}

func nineProducts() []models.RemoteProduct {
	out := make([]models.RemoteProduct, 0, 9)
	for i := 1; i <= 9; i++ {
		category := "jewelery"
		if i <= 3 {
			category = "electronics"
		}
		out = append(out, models.RemoteProduct{
			ID:          int64(i),
			Title:       fmt.Sprintf("Item %d", i),
			Description: "A very fine item",
			Category:    category,
			Price:       1,
			Image:       "https://x.test/i.png",
		})
	}
	return out
}

func TestListLoadsOnce(t *testing.T) {
	ctx := context.Background()
	src := &stubSource{products: nineProducts()}
	uc := newUsecase(t, src)

	res := uc.List(ctx, ListQuery{})
	assert.Equal(t, 1, src.calls)
	assert.True(t, res.Status.Loaded)
	assert.Equal(t, 9, res.Page.TotalItems)
	assert.Equal(t, []string{"electronics", "jewelery"}, res.Status.Categories)

	uc.List(ctx, ListQuery{})
	assert.Equal(t, 1, src.calls)
}

func TestListAppliesQuery(t *testing.T) {
	ctx := context.Background()
	uc := newUsecase(t, &stubSource{products: nineProducts()})

	res := uc.List(ctx, ListQuery{Page: util.Ptr(2)})
	assert.Equal(t, 2, res.Page.Page)
	assert.Len(t, res.Page.Items, 1)

	res = uc.List(ctx, ListQuery{Category: util.Ptr("electronics")})
	assert.Equal(t, 1, res.Page.Page)
	assert.Equal(t, 1, res.Page.TotalPages)
	assert.Equal(t, 3, res.Page.TotalItems)
	assert.Equal(t, "electronics", res.Status.View.Category)

	// category and page in one query: page applies after the reset
	res = uc.List(ctx, ListQuery{Category: util.Ptr(models.AllCategories), Page: util.Ptr(2)})
	assert.Equal(t, 2, res.Page.Page)

	res = uc.List(ctx, ListQuery{Filter: util.Ptr(models.FilterFavorites)})
	assert.Equal(t, 0, res.Page.TotalItems)
	assert.Equal(t, 1, res.Page.TotalPages)

	res = uc.List(ctx, ListQuery{Filter: util.Ptr(models.FilterAll), Search: util.Ptr("item 7")})
	require.Len(t, res.Page.Items, 1)
	assert.Equal(t, "7", res.Page.Items[0].ID)
}

func TestListReportsFetchFailure(t *testing.T) {
	ctx := context.Background()
	uc := newUsecase(t, &stubSource{err: errors.New("dial tcp: no route to host")})

	res := uc.List(ctx, ListQuery{})
	assert.Contains(t, res.Status.Error, "no route to host")
	assert.False(t, res.Status.Loaded)
	assert.Empty(t, res.Page.Items)
}

func TestMutationsReportNotFound(t *testing.T) {
	ctx := context.Background()
	uc := newUsecase(t, &stubSource{products: nineProducts()})

	_, err := uc.Get(ctx, "404")
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = uc.ToggleLike(ctx, "404")
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = uc.Update(ctx, "404", models.UpdateProductPayload{Title: util.Ptr("New title")})
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, "404"), models.ErrNotFound)

	p, err := uc.ToggleLike(ctx, "1")
	require.NoError(t, err)
	assert.True(t, p.Liked)

	created := uc.Create(ctx, models.CreateProductPayload{Title: "Smart Watch", Description: "Tracks steps and heart rate", Price: 49.99, Category: "wearables", Image: "https://x.test/a.png"})
	got, err := uc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Contains(t, uc.Status(ctx).Categories, "wearables")

	require.NoError(t, uc.Delete(ctx, created.ID))
	_, err = uc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	src := &stubSource{products: nineProducts()}
	uc := newUsecase(t, src)

	require.NoError(t, uc.Refresh(ctx))
	require.NoError(t, uc.Refresh(ctx))
	assert.Equal(t, 2, src.calls)

	src.err = errors.New("boom")
	assert.Error(t, uc.Refresh(ctx))
	assert.Equal(t, 9, uc.List(ctx, ListQuery{}).Page.TotalItems)
	assert.NotEmpty(t, uc.Status(ctx).Error)
}
