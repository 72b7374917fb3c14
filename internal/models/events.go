package models

import "time"

type CatalogEventType string

const (
	EventProductsFetched CatalogEventType = "products_fetched"
	EventProductCreated  CatalogEventType = "product_created"
	EventProductUpdated  CatalogEventType = "product_updated"
	EventProductDeleted  CatalogEventType = "product_deleted"
	EventProductLiked    CatalogEventType = "product_liked"
	EventProductUnliked  CatalogEventType = "product_unliked"
)

// CatalogEvent describes one successful change of the catalog.
type CatalogEvent struct {
	Type       CatalogEventType `json:"type"`
	ProductID  string           `json:"product_id,omitempty"`
	Product    *Product         `json:"product,omitempty"`
	TotalCount int              `json:"total_count,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// Key is the partition key of the event.
func (e CatalogEvent) Key() string {
	if e.ProductID != "" {
		return e.ProductID
	}
	return string(e.Type)
}
