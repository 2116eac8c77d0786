package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shopfront/gateway/internal/domain/catalog"
	"github.com/shopfront/gateway/internal/infrastructure/cache"
	"github.com/shopfront/gateway/internal/infrastructure/upstream"
)

// Browser holds one visitor's listing state: the applied filters, the
// pages accumulated through load-more, and a generation counter that
// guards against stale platform responses.
//
// Every filter change bumps the generation and resets the accumulated
// products. A fetch started under an older generation is discarded
// when it lands, so a slow first page can never overwrite a newer
// filter's results.
type Browser struct {
	client *upstream.Client
	cache  cache.ListingCache
	ttl    time.Duration
	logger *zap.Logger

	mu         sync.Mutex
	generation uint64
	filters    catalog.Filters
	products   []catalog.Product
	facets     []catalog.Facet
	total      int
	hasMore    bool
	lastUsed   time.Time
}

// View is a snapshot of the browser state returned to the handler
type View struct {
	Filters  catalog.Filters   `json:"filters"`
	Products []catalog.Product `json:"products"`
	Facets   []catalog.Facet   `json:"facets"`
	Total    int               `json:"total"`
	HasMore  bool              `json:"hasMore"`
}

func newBrowser(client *upstream.Client, listingCache cache.ListingCache, ttl time.Duration, logger *zap.Logger) *Browser {
	return &Browser{
		client:   client,
		cache:    listingCache,
		ttl:      ttl,
		logger:   logger,
		filters:  catalog.NewFilters(),
		lastUsed: time.Now(),
	}
}

// SetCategory switches the listing to a category and refreshes
func (b *Browser) SetCategory(ctx context.Context, slug string) (*View, error) {
	b.mu.Lock()
	b.filters.CategorySlug = slug
	b.mu.Unlock()
	return b.Refresh(ctx)
}

// Search applies a free-text query and refreshes
func (b *Browser) Search(ctx context.Context, query string) (*View, error) {
	b.mu.Lock()
	b.filters.Query = query
	b.mu.Unlock()
	return b.Refresh(ctx)
}

// SetSort applies a sort order and refreshes
func (b *Browser) SetSort(ctx context.Context, sort string) (*View, error) {
	b.mu.Lock()
	b.filters.Sort = sort
	b.mu.Unlock()
	return b.Refresh(ctx)
}

// SetPriceRange validates and applies a price range, then refreshes.
// Invalid input leaves the applied range untouched: validation happens
// before anything is staged into the filters.
func (b *Browser) SetPriceRange(ctx context.Context, rawMin, rawMax string) (*View, error) {
	priceRange, err := catalog.ParsePriceRange(rawMin, rawMax)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	b.filters.Price = priceRange
	b.mu.Unlock()
	return b.Refresh(ctx)
}

// ToggleSpecification adds or removes one specification value and
// refreshes. Deselecting the last value of a key removes the key
// entirely.
func (b *Browser) ToggleSpecification(ctx context.Context, key, value string, selected bool) (*View, error) {
	b.mu.Lock()
	b.filters.ToggleSpecification(key, value, selected)
	b.mu.Unlock()
	return b.Refresh(ctx)
}

// ClearFilters drops everything except the category and refreshes
func (b *Browser) ClearFilters(ctx context.Context) (*View, error) {
	b.mu.Lock()
	category := b.filters.CategorySlug
	b.filters = catalog.NewFilters()
	b.filters.CategorySlug = category
	b.mu.Unlock()
	return b.Refresh(ctx)
}

// Refresh discards accumulated pages and fetches the first page under
// a new generation
func (b *Browser) Refresh(ctx context.Context) (*View, error) {
	b.mu.Lock()
	b.generation++
	gen := b.generation
	filters := b.filters.Clone()
	b.mu.Unlock()

	listing, err := b.fetch(ctx, filters, 0)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastUsed = time.Now()
	if gen != b.generation {
		// A newer filter change superseded this fetch; keep whatever
		// that change produced
		return b.viewLocked(), nil
	}
	b.products = listing.Products
	b.facets = listing.Facets
	b.total = listing.Total
	b.hasMore = listing.HasMore
	return b.viewLocked(), nil
}

// LoadMore fetches the next page and appends it. A stale response
// (filters changed while the fetch was in flight) is discarded.
func (b *Browser) LoadMore(ctx context.Context) (*View, error) {
	b.mu.Lock()
	if !b.hasMore {
		view := b.viewLocked()
		b.mu.Unlock()
		return view, nil
	}
	gen := b.generation
	filters := b.filters.Clone()
	offset := len(b.products)
	b.mu.Unlock()

	listing, err := b.fetch(ctx, filters, offset)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastUsed = time.Now()
	if gen != b.generation {
		return b.viewLocked(), nil
	}
	b.products = append(b.products, listing.Products...)
	b.total = listing.Total
	b.hasMore = listing.HasMore
	return b.viewLocked(), nil
}

// View returns the current snapshot without fetching
func (b *Browser) View() *View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.viewLocked()
}

func (b *Browser) viewLocked() *View {
	products := make([]catalog.Product, len(b.products))
	copy(products, b.products)
	facets := make([]catalog.Facet, len(b.facets))
	copy(facets, b.facets)
	return &View{
		Filters:  b.filters.Clone(),
		Products: products,
		Facets:   facets,
		Total:    b.total,
		HasMore:  b.hasMore,
	}
}

func (b *Browser) fetch(ctx context.Context, filters catalog.Filters, offset int) (*catalog.Listing, error) {
	key := fmt.Sprintf("%s:%d", filters.CacheKey(), offset)
	if listing, ok := b.cache.Get(ctx, key); ok {
		return listing, nil
	}

	listing, err := b.client.ListProducts(ctx, filters, offset, catalog.PageSize)
	if err != nil {
		return nil, err
	}
	b.cache.Set(ctx, key, listing, b.ttl)
	return listing, nil
}
