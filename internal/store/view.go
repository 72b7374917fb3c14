package store

import (
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/nguyentranbao-ct/catalog/internal/models"
	"github.com/nguyentranbao-ct/catalog/pkg/util"
)

// FilterProducts applies the favorites filter, then the category filter, then
// a case-insensitive substring search over title and description.
func FilterProducts(products []models.Product, filter models.Filter, category, search string) []models.Product {
	query := strings.ToLower(strings.TrimSpace(search))
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if filter == models.FilterFavorites && !p.Liked {
			continue
		}
		if category != "" && category != models.AllCategories && p.Category != category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Title), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// TotalPages is never less than 1, an empty list still renders one page.
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 {
		pageSize = models.DefaultPageSize
	}
	pages := (count + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// Paginate slices items into the requested page, clamped to [1, TotalPages].
func Paginate(items []models.Product, page, pageSize int) models.Page {
	if pageSize <= 0 {
		pageSize = models.DefaultPageSize
	}
	total := TotalPages(len(items), pageSize)
	page = max(1, min(page, total))

	start := min((page-1)*pageSize, len(items))
	end := min(start+pageSize, len(items))
	pageItems := make([]models.Product, end-start)
	copy(pageItems, items[start:end])

	return models.Page{
		Items:      pageItems,
		Page:       page,
		TotalPages: total,
		TotalItems: len(items),
		PageSize:   pageSize,
	}
}

// BuildPage is the derived list view of a product set for the given state.
func BuildPage(products []models.Product, view models.ViewState) models.Page {
	return Paginate(FilterProducts(products, view.Filter, view.Category, view.Search), view.Page, view.PageSize)
}

// SortCategories returns the distinct values sorted with the collation
// rules of locale. Unknown locales fall back to the root collation.
func SortCategories(locale string, categories ...[]string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, list := range categories {
		for _, c := range list {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	newCollator(locale).SortStrings(out)
	return out
}

func newCollator(locale string) *collate.Collator {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	return collate.New(tag)
}

func productCategories(products []models.Product) []string {
	return util.ConvertList(products, func(p models.Product) string {
		return p.Category
	})
}
