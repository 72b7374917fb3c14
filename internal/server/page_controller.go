package server

import (
	"errors"
	"math"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/nguyentranbao-ct/catalog/internal/models"
	pkgmdw "github.com/nguyentranbao-ct/catalog/internal/server/middleware"
	"github.com/nguyentranbao-ct/catalog/internal/usecase"
	log "github.com/nguyentranbao-ct/catalog/pkg/logger/log_context"
)

const productsPath = "/products"

// PageController serves the HTML screens of the catalog.
type PageController interface {
	Index(c echo.Context) error
	ListProducts(c echo.Context) error
	RefreshProducts(c echo.Context) error
	ShowProduct(c echo.Context) error
	LikeProduct(c echo.Context) error
	DeleteProduct(c echo.Context) error
	UpdateProduct(c echo.Context) error
	NewProduct(c echo.Context) error
	CreateProduct(c echo.Context) error
	NotFound(c echo.Context) error
}

// ProductForm is the raw create/edit form submission. Price stays text so an
// invalid value can be shown back to the user.
type ProductForm struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Price       string `form:"price"`
	Category    string `form:"category"`
	Image       string `form:"image"`
}

func productFormOf(p models.Product) ProductForm {
	return ProductForm{
		Title:       p.Title,
		Description: p.Description,
		Price:       cast.ToString(p.Price),
		Category:    p.Category,
		Image:       p.Image,
	}
}

type listPage struct {
	Page   models.Page
	Status usecase.Status
}

type detailPage struct {
	Product models.Product
	Status  usecase.Status
	Editing bool
	Form    ProductForm
	Errors  map[string]string
}

type createPage struct {
	Categories []string
	Form       ProductForm
	Errors     map[string]string
}

type errorPage struct {
	Code    int
	Message string
}

type pageController struct {
	catalog usecase.CatalogUsecase
}

func NewPageController(catalog usecase.CatalogUsecase) PageController {
	return &pageController{catalog: catalog}
}

func (h *pageController) Index(c echo.Context) error {
	return c.Redirect(http.StatusFound, productsPath)
}

func (h *pageController) NotFound(c echo.Context) error {
	return c.Redirect(http.StatusFound, productsPath)
}

func (h *pageController) ListProducts(c echo.Context) error {
	query, err := parseListQuery(c.QueryParams())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res := h.catalog.List(c.Request().Context(), query)
	return c.Render(http.StatusOK, "list.html", listPage{
		Page:   res.Page,
		Status: res.Status,
	})
}

func (h *pageController) RefreshProducts(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.catalog.Refresh(ctx); err != nil {
		log.Warnw(ctx, "manual refresh failed", "error", err)
	}
	return c.Redirect(http.StatusSeeOther, productsPath)
}

func (h *pageController) ShowProduct(c echo.Context) error {
	ctx := c.Request().Context()
	p, err := h.catalog.Get(ctx, c.Param("id"))
	if err != nil {
		return h.productError(c, err)
	}

	return c.Render(http.StatusOK, "detail.html", detailPage{
		Product: p,
		Status:  h.catalog.Status(ctx),
		Editing: cast.ToBool(c.QueryParam("edit")),
		Form:    productFormOf(p),
	})
}

func (h *pageController) LikeProduct(c echo.Context) error {
	id := c.Param("id")
	if _, err := h.catalog.ToggleLike(c.Request().Context(), id); err != nil {
		return h.productError(c, err)
	}
	return c.Redirect(http.StatusSeeOther, returnPath(c.FormValue("next"), productsPath+"/"+id))
}

func (h *pageController) DeleteProduct(c echo.Context) error {
	if err := h.catalog.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return h.productError(c, err)
	}
	return c.Redirect(http.StatusSeeOther, productsPath)
}

func (h *pageController) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	current, err := h.catalog.Get(ctx, id)
	if err != nil {
		return h.productError(c, err)
	}

	var form ProductForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	payload, fieldErrs := validateForm(c, form)
	if len(fieldErrs) > 0 {
		return c.Render(http.StatusUnprocessableEntity, "detail.html", detailPage{
			Product: current,
			Status:  h.catalog.Status(ctx),
			Editing: true,
			Form:    form,
			Errors:  fieldErrs,
		})
	}

	if _, err := h.catalog.Update(ctx, id, payload.Full()); err != nil {
		return h.productError(c, err)
	}
	return c.Redirect(http.StatusSeeOther, productsPath+"/"+id)
}

func (h *pageController) NewProduct(c echo.Context) error {
	ctx := c.Request().Context()
	h.catalog.List(ctx, usecase.ListQuery{})
	return c.Render(http.StatusOK, "create.html", createPage{
		Categories: h.catalog.Status(ctx).Categories,
	})
}

func (h *pageController) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var form ProductForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	payload, fieldErrs := validateForm(c, form)
	if len(fieldErrs) > 0 {
		return c.Render(http.StatusUnprocessableEntity, "create.html", createPage{
			Categories: h.catalog.Status(ctx).Categories,
			Form:       form,
			Errors:     fieldErrs,
		})
	}

	p := h.catalog.Create(ctx, payload)
	return c.Redirect(http.StatusSeeOther, productsPath+"/"+p.ID)
}

func (h *pageController) productError(c echo.Context, err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return c.Render(http.StatusNotFound, "error.html", errorPage{
			Code:    http.StatusNotFound,
			Message: "Product not found.",
		})
	}
	return err
}

// validateForm converts the form to a payload and runs the struct validator
// on it. The returned map is keyed by form field name.
func validateForm(c echo.Context, form ProductForm) (models.CreateProductPayload, map[string]string) {
	payload := models.CreateProductPayload{
		Title:       form.Title,
		Description: form.Description,
		Category:    form.Category,
		Image:       form.Image,
	}

	fieldErrs := map[string]string{}
	raw := strings.TrimSpace(form.Price)
	price, err := cast.ToFloat64E(raw)
	if err != nil || raw == "" || math.IsInf(price, 0) || math.IsNaN(price) {
		fieldErrs["price"] = "must be a number"
	}
	payload.Price = price

	if err := c.Validate(payload); err != nil {
		for field, msg := range pkgmdw.FieldErrors(err) {
			if _, ok := fieldErrs[field]; !ok {
				fieldErrs[field] = msg
			}
		}
	}
	return payload, fieldErrs
}

// returnPath accepts only same-site absolute paths.
func returnPath(next, fallback string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return fallback
}
