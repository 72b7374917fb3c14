package models

import (
	"strconv"
	"time"
)

type ProductSource string

const (
	SourceRemote ProductSource = "remote"
	SourceLocal  ProductSource = "local"
)

// LocalIDPrefix namespaces ids of products created in this process so they
// never collide with the numeric ids of the remote catalog.
const LocalIDPrefix = "local-"

// Product is a catalog entry as it is stored and displayed.
type Product struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Image       string        `json:"image"`
	Price       float64       `json:"price"`
	Liked       bool          `json:"liked"`
	Source      ProductSource `json:"source"`
	CreatedAt   time.Time     `json:"created_at"`
}

func (p Product) IsLocal() bool {
	return p.Source == SourceLocal
}

// RemoteProduct is the wire shape of one record of the remote product list.
type RemoteProduct struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
}

func (r RemoteProduct) ProductID() string {
	return strconv.FormatInt(r.ID, 10)
}

// ToProduct converts the record to a remote-sourced product.
func (r RemoteProduct) ToProduct(liked bool, now time.Time) Product {
	return Product{
		ID:          r.ProductID(),
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Image:       r.Image,
		Price:       r.Price,
		Liked:       liked,
		Source:      SourceRemote,
		CreatedAt:   now,
	}
}

// CreateProductPayload holds the user supplied fields of a new product.
type CreateProductPayload struct {
	Title       string  `json:"title" form:"title" validate:"min=4"`
	Description string  `json:"description" form:"description" validate:"min=10"`
	Price       float64 `json:"price" form:"price" validate:"gte=0"`
	Category    string  `json:"category" form:"category" validate:"min=3"`
	Image       string  `json:"image" form:"image" validate:"required,url"`
}

// UpdateProductPayload is a partial update; nil fields are left untouched.
type UpdateProductPayload struct {
	Title       *string  `json:"title,omitempty" validate:"omitempty,min=4"`
	Description *string  `json:"description,omitempty" validate:"omitempty,min=10"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,min=3"`
	Image       *string  `json:"image,omitempty" validate:"omitempty,url"`
}

// Full turns a complete form submission into an update touching every field.
func (p CreateProductPayload) Full() UpdateProductPayload {
	return UpdateProductPayload{
		Title:       &p.Title,
		Description: &p.Description,
		Price:       &p.Price,
		Category:    &p.Category,
		Image:       &p.Image,
	}
}

// Apply merges the set fields of u into p. Liked, Source and CreatedAt are
// never changed.
func (u UpdateProductPayload) Apply(p Product) Product {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Image != nil {
		p.Image = *u.Image
	}
	return p
}
