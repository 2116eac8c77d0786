package cache

import (
	"context"
	"sync"
	"time"

	"github.com/shopfront/gateway/internal/domain/catalog"
)

// ListingCache stores product listing pages keyed by their normalized
// filter key. A miss is not an error; callers fall through to the
// platform.
type ListingCache interface {
	Get(ctx context.Context, key string) (*catalog.Listing, bool)
	Set(ctx context.Context, key string, listing *catalog.Listing, ttl time.Duration)
}

// MemoryListingCache is an in-process listing cache for development
// and tests
type MemoryListingCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	listing   catalog.Listing
	expiresAt time.Time
}

// NewMemoryListingCache creates an in-memory listing cache
func NewMemoryListingCache() *MemoryListingCache {
	return &MemoryListingCache{
		entries: make(map[string]memoryEntry),
	}
}

// Get implements ListingCache
func (c *MemoryListingCache) Get(_ context.Context, key string) (*catalog.Listing, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}

	listing := entry.listing
	return &listing, true
}

// Set implements ListingCache
func (c *MemoryListingCache) Set(_ context.Context, key string, listing *catalog.Listing, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{
		listing:   *listing,
		expiresAt: time.Now().Add(ttl),
	}
}

var _ ListingCache = (*MemoryListingCache)(nil)

// NopListingCache disables caching entirely
type NopListingCache struct{}

func (NopListingCache) Get(context.Context, string) (*catalog.Listing, bool) { return nil, false }
func (NopListingCache) Set(context.Context, string, *catalog.Listing, time.Duration) {
}

var _ ListingCache = NopListingCache{}
