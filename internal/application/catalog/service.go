package catalog

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shopfront/gateway/internal/domain/catalog"
	"github.com/shopfront/gateway/internal/infrastructure/cache"
	"github.com/shopfront/gateway/internal/infrastructure/upstream"
)

// Service manages one Browser per visitor. Browsers idle past the
// sweep window are dropped; a returning visitor simply starts from an
// unfiltered listing again.
type Service struct {
	client *upstream.Client
	cache  cache.ListingCache
	ttl    time.Duration
	logger *zap.Logger

	mu       sync.Mutex
	browsers map[string]*Browser
}

// NewService creates the catalog service
func NewService(client *upstream.Client, listingCache cache.ListingCache, ttl time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if listingCache == nil {
		listingCache = cache.NopListingCache{}
	}
	return &Service{
		client:   client,
		cache:    listingCache,
		ttl:      ttl,
		logger:   logger,
		browsers: make(map[string]*Browser),
	}
}

// Browser returns the visitor's listing browser, creating it on first
// use
func (s *Service) Browser(visitorID string) *Browser {
	s.mu.Lock()
	defer s.mu.Unlock()
	browser, ok := s.browsers[visitorID]
	if !ok {
		browser = newBrowser(s.client, s.cache, s.ttl, s.logger)
		s.browsers[visitorID] = browser
	}
	return browser
}

// Sweep drops browsers idle longer than maxIdle and returns how many
// were removed
func (s *Service) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, browser := range s.browsers {
		browser.mu.Lock()
		idle := browser.lastUsed.Before(cutoff)
		browser.mu.Unlock()
		if idle {
			delete(s.browsers, id)
			removed++
		}
	}
	return removed
}

// RunSweeper prunes idle browsers until the context is cancelled
func (s *Service) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Sweep(maxIdle); removed > 0 {
				s.logger.Debug("pruned idle listing browsers", zap.Int("removed", removed))
			}
		}
	}
}

// GetProduct fetches a single product by slug
func (s *Service) GetProduct(ctx context.Context, slug string) (*catalog.Product, error) {
	return s.client.GetProduct(ctx, slug)
}

// ListCategories fetches the category tree
func (s *Service) ListCategories(ctx context.Context) ([]upstream.Category, error) {
	return s.client.ListCategories(ctx)
}
