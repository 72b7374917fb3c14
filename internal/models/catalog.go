package models

type Filter string

const (
	FilterAll       Filter = "all"
	FilterFavorites Filter = "favorites"
)

func (f Filter) Valid() bool {
	return f == FilterAll || f == FilterFavorites
}

// AllCategories disables the category filter.
const AllCategories = "all"

const DefaultPageSize = 8

// ViewState is the ephemeral list state shared by every screen.
type ViewState struct {
	Filter   Filter `json:"filter"`
	Search   string `json:"search"`
	Category string `json:"category"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

func DefaultViewState(pageSize int) ViewState {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return ViewState{
		Filter:   FilterAll,
		Category: AllCategories,
		Page:     1,
		PageSize: pageSize,
	}
}

// Page is one rendered page of the filtered product list.
type Page struct {
	Items      []Product `json:"items"`
	Page       int       `json:"page"`
	TotalPages int       `json:"total_pages"`
	TotalItems int       `json:"total_items"`
	PageSize   int       `json:"page_size"`
}

func (p Page) HasPrev() bool {
	return p.Page > 1
}

func (p Page) HasNext() bool {
	return p.Page < p.TotalPages
}

func (p Page) PrevPage() int {
	if p.Page <= 1 {
		return 1
	}
	return p.Page - 1
}

func (p Page) NextPage() int {
	if p.Page >= p.TotalPages {
		return p.TotalPages
	}
	return p.Page + 1
}
