package server

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/nguyentranbao-ct/catalog/internal/models"
	pkgmdw "github.com/nguyentranbao-ct/catalog/internal/server/middleware"
	"github.com/nguyentranbao-ct/catalog/internal/usecase"
)

type Controller interface {
	ListProducts(c echo.Context) error
	GetProduct(c echo.Context, req ProductIDRequest) (models.Product, error)
	CreateProduct(c echo.Context, req models.CreateProductPayload) (*pkgmdw.Response, error)
	UpdateProduct(c echo.Context, req UpdateProductRequest) (models.Product, error)
	ToggleLike(c echo.Context, req ProductIDRequest) (models.Product, error)
	DeleteProduct(c echo.Context, req ProductIDRequest) error
	FetchProducts(c echo.Context) error
	ListCategories(c echo.Context) error
	Health(c echo.Context) error
}

type ProductIDRequest struct {
	ID string `param:"id" validate:"required"`
}

type UpdateProductRequest struct {
	ID string `param:"id" json:"-" validate:"required"`
	models.UpdateProductPayload
}

type controller struct {
	catalog usecase.CatalogUsecase
}

func NewHandler(catalog usecase.CatalogUsecase) Controller {
	return &controller{
		catalog: catalog,
	}
}

func (h *controller) ListProducts(c echo.Context) error {
	query, err := parseListQuery(c.QueryParams())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res := h.catalog.List(c.Request().Context(), query)
	return c.JSON(http.StatusOK, pkgmdw.OK(res))
}

func (h *controller) GetProduct(c echo.Context, req ProductIDRequest) (models.Product, error) {
	p, err := h.catalog.Get(c.Request().Context(), req.ID)
	return p, toHTTPError(err)
}

func (h *controller) CreateProduct(c echo.Context, req models.CreateProductPayload) (*pkgmdw.Response, error) {
	p := h.catalog.Create(c.Request().Context(), req)
	return pkgmdw.NewResponse(http.StatusCreated, p), nil
}

func (h *controller) UpdateProduct(c echo.Context, req UpdateProductRequest) (models.Product, error) {
	p, err := h.catalog.Update(c.Request().Context(), req.ID, req.UpdateProductPayload)
	return p, toHTTPError(err)
}

func (h *controller) ToggleLike(c echo.Context, req ProductIDRequest) (models.Product, error) {
	p, err := h.catalog.ToggleLike(c.Request().Context(), req.ID)
	return p, toHTTPError(err)
}

func (h *controller) DeleteProduct(c echo.Context, req ProductIDRequest) error {
	return toHTTPError(h.catalog.Delete(c.Request().Context(), req.ID))
}

func (h *controller) FetchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.catalog.Refresh(ctx); err != nil {
		return &pkgmdw.ResponseError{
			Status:       http.StatusBadGateway,
			Err:          err,
			ErrorCode:    "fetch_failed",
			ErrorMessage: h.catalog.Status(ctx).Error,
		}
	}
	return c.JSON(http.StatusOK, pkgmdw.OK(h.catalog.Status(ctx)))
}

func (h *controller) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	h.catalog.List(ctx, usecase.ListQuery{})
	return c.JSON(http.StatusOK, pkgmdw.OK(h.catalog.Status(ctx).Categories))
}

func (h *controller) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "catalog",
	})
}

func toHTTPError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, models.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	default:
		return err
	}
}

// parseListQuery reads the list view changes present in the query string.
func parseListQuery(values url.Values) (usecase.ListQuery, error) {
	var q usecase.ListQuery
	if values.Has("filter") {
		f := models.Filter(values.Get("filter"))
		if !f.Valid() {
			return q, errors.New("filter must be one of: all favorites")
		}
		q.Filter = &f
	}
	if values.Has("search") {
		s := values.Get("search")
		q.Search = &s
	}
	if values.Has("category") {
		category := strings.TrimSpace(values.Get("category"))
		if category == "" {
			category = models.AllCategories
		}
		q.Category = &category
	}
	if values.Has("page") {
		page, err := cast.ToIntE(values.Get("page"))
		if err != nil {
			return q, errors.New("page must be an integer")
		}
		q.Page = &page
	}
	return q, nil
}
