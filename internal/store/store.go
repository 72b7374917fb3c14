package store

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nguyentranbao-ct/catalog/internal/models"
	"github.com/nguyentranbao-ct/catalog/pkg/clock"
	log "github.com/nguyentranbao-ct/catalog/pkg/logger/log_context"
	"github.com/nguyentranbao-ct/catalog/pkg/util"
)

// ProductSource loads the full remote product list.
type ProductSource interface {
	ListProducts(ctx context.Context) ([]models.RemoteProduct, error)
}

// EventPublisher receives every successful catalog change.
type EventPublisher interface {
	Publish(ctx context.Context, event models.CatalogEvent) error
}

type Options struct {
	PageSize  int
	Locale    string
	Clock     clock.Clock
	Publisher EventPublisher
	NewID     func() string
}

// State is a point-in-time copy of everything the store holds.
type State struct {
	Products   []models.Product `json:"-"`
	Categories []string         `json:"categories"`
	Loading    bool             `json:"loading"`
	Loaded     bool             `json:"loaded"`
	Error      string           `json:"error,omitempty"`
	View       models.ViewState `json:"view"`
}

// Store is the single source of truth for the product set and the list
// view state. All methods are safe for concurrent use; at most one remote
// fetch is in flight at any time.
type Store struct {
	mu sync.Mutex

	source    ProductSource
	clock     clock.Clock
	publisher EventPublisher
	newID     func() string
	locale    string
	metrics   *prometheus.HistogramVec

	products   []models.Product
	categories []string
	loading    bool
	loaded     bool
	errMsg     string
	view       models.ViewState
}

func New(source ProductSource, opts Options) (*Store, error) {
	if source == nil {
		return nil, fmt.Errorf("product source is required")
	}
	metrics, err := util.GetHistogramVec("catalog_fetch_duration_seconds", "status")
	if err != nil {
		return nil, fmt.Errorf("get histogram vec: %w", err)
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Publisher == nil {
		opts.Publisher = nopPublisher{}
	}
	if opts.NewID == nil {
		opts.NewID = newLocalID
	}
	return &Store{
		source:     source,
		clock:      opts.Clock,
		publisher:  opts.Publisher,
		newID:      opts.NewID,
		locale:     opts.Locale,
		metrics:    metrics,
		products:   []models.Product{},
		categories: []string{},
		view:       models.DefaultViewState(opts.PageSize),
	}, nil
}

func newLocalID() string {
	return models.LocalIDPrefix + uuid.NewString()
}

// Fetch loads the remote product list and merges it into the current set.
// A call made while another fetch is in flight returns nil without issuing a
// request. The fetch is not bound to ctx cancellation once started.
func (s *Store) Fetch(ctx context.Context) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		log.Debugw(ctx, "fetch already in flight, skipping")
		return nil
	}
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()

	start := time.Now()
	remote, err := s.source.ListProducts(context.WithoutCancel(ctx))

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.errMsg = fetchErrorMessage(err)
		s.mu.Unlock()
		s.metrics.WithLabelValues("error").Observe(time.Since(start).Seconds())
		log.Errorw(ctx, "fetch products failed", "error", err)
		return fmt.Errorf("fetch products: %w", err)
	}

	s.products = mergeRemote(s.products, remote, s.clock.Now())
	s.categories = SortCategories(s.locale, productCategories(s.products))
	s.view.Page = 1
	s.loaded = true
	total := len(s.products)
	s.mu.Unlock()

	s.metrics.WithLabelValues("ok").Observe(time.Since(start).Seconds())
	log.Infow(ctx, "products fetched", "remote", len(remote), "total", total)
	s.publish(ctx, models.CatalogEvent{Type: models.EventProductsFetched, TotalCount: total})
	return nil
}

// EnsureLoaded fetches only when nothing has been loaded yet and no fetch is
// running.
func (s *Store) EnsureLoaded(ctx context.Context) error {
	s.mu.Lock()
	skip := s.loaded || s.loading
	s.mu.Unlock()
	if skip {
		return nil
	}
	return s.Fetch(ctx)
}

func fetchErrorMessage(err error) string {
	return fmt.Sprintf("Failed to load products: %v", err)
}

// mergeRemote replaces remote-sourced products with the new payload, keeping
// the liked flag of ids that reappear, and appends local products after them.
func mergeRemote(current []models.Product, remote []models.RemoteProduct, now time.Time) []models.Product {
	existing := make(map[string]models.Product, len(current))
	for _, p := range current {
		existing[p.ID] = p
	}

	merged := make([]models.Product, 0, len(remote)+len(current))
	seen := make(map[string]struct{}, len(remote))
	for _, r := range remote {
		id := r.ProductID()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		prev, ok := existing[id]
		if ok && prev.IsLocal() {
			continue
		}
		merged = append(merged, r.ToProduct(ok && prev.Liked, now))
	}

	for _, p := range current {
		if p.IsLocal() {
			merged = append(merged, p)
		}
	}
	return merged
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.products, func(p models.Product) bool {
		return p.ID == id
	})
}

// Get returns the product with the given id.
func (s *Store) Get(id string) (models.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return models.Product{}, false
	}
	return s.products[i], true
}

// ToggleLike flips the liked flag. It reports false if id is unknown.
func (s *Store) ToggleLike(ctx context.Context, id string) (models.Product, bool) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return models.Product{}, false
	}
	s.products[i].Liked = !s.products[i].Liked
	p := s.products[i]
	s.mu.Unlock()

	typ := models.EventProductUnliked
	if p.Liked {
		typ = models.EventProductLiked
	}
	s.publish(ctx, models.CatalogEvent{Type: typ, ProductID: p.ID, Product: &p})
	return p, true
}

// Delete removes the product. It reports false if id is unknown.
func (s *Store) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.products = slices.Delete(s.products, i, i+1)
	s.categories = SortCategories(s.locale, productCategories(s.products))
	s.mu.Unlock()

	log.Infow(ctx, "product deleted", "product_id", id)
	s.publish(ctx, models.CatalogEvent{Type: models.EventProductDeleted, ProductID: id})
	return true
}

// Create appends a new local product built from an already validated payload.
func (s *Store) Create(ctx context.Context, payload models.CreateProductPayload) models.Product {
	p := models.Product{
		ID:          s.newID(),
		Title:       payload.Title,
		Description: payload.Description,
		Category:    payload.Category,
		Image:       payload.Image,
		Price:       payload.Price,
		Liked:       false,
		Source:      models.SourceLocal,
		CreatedAt:   s.clock.Now(),
	}

	s.mu.Lock()
	s.products = append(s.products, p)
	s.categories = SortCategories(s.locale, s.categories, []string{p.Category})
	s.view.Page = 1
	s.mu.Unlock()

	log.Infow(ctx, "product created", "product_id", p.ID, "category", p.Category)
	s.publish(ctx, models.CatalogEvent{Type: models.EventProductCreated, ProductID: p.ID, Product: &p})
	return p
}

// Update merges the set fields of payload into the product. The category list
// is left as is.
func (s *Store) Update(ctx context.Context, id string, payload models.UpdateProductPayload) (models.Product, bool) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return models.Product{}, false
	}
	s.products[i] = payload.Apply(s.products[i])
	p := s.products[i]
	s.mu.Unlock()

	log.Infow(ctx, "product updated", "product_id", id)
	s.publish(ctx, models.CatalogEvent{Type: models.EventProductUpdated, ProductID: id, Product: &p})
	return p, true
}

func (s *Store) SetFilter(filter models.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Filter = filter
	s.view.Page = 1
}

func (s *Store) SetSearch(search string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Search = search
	s.view.Page = 1
}

func (s *Store) SetCategory(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Category = category
	s.view.Page = 1
}

// SetPage stores page as is; View clamps it.
func (s *Store) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Page = page
}

// View computes the current page of the filtered list. When the stored page
// is out of range it is corrected to the page actually rendered.
func (s *Store) View() models.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	page := BuildPage(s.products, s.view)
	s.view.Page = page.Page
	return page
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Products:   slices.Clone(s.products),
		Categories: slices.Clone(s.categories),
		Loading:    s.loading,
		Loaded:     s.loaded,
		Error:      s.errMsg,
		View:       s.view,
	}
}

func (s *Store) publish(ctx context.Context, event models.CatalogEvent) {
	event.OccurredAt = s.clock.Now()
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Warnw(ctx, "publish catalog event failed", "type", event.Type, "error", err)
	}
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, models.CatalogEvent) error {
	return nil
}
