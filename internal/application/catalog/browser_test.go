package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopfront/gateway/internal/domain/catalog"
	"github.com/shopfront/gateway/internal/infrastructure/cache"
	"github.com/shopfront/gateway/internal/infrastructure/upstream"
)

// listingStub serves a fixed catalog of 60 products, filterable by a
// "color" specification and sliced by offset/limit
type listingStub struct {
	mu sync.Mutex
	// delay per query value, keyed by the q parameter, to simulate a
	// slow platform response for a particular search
	delays map[string]time.Duration
	calls  int
}

func (s *listingStub) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/store/products" {
			http.NotFound(w, r)
			return
		}
		query := r.URL.Query().Get("q")

		s.mu.Lock()
		s.calls++
		delay := s.delays[query]
		s.mu.Unlock()
		if delay > 0 {
			time.Sleep(delay)
		}

		total := 60
		if query != "" {
			total = 10
		}
		colors := r.URL.Query()["spec.color"]
		if len(colors) > 0 {
			total = 5
		}

		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		count := limit
		if offset+count > total {
			count = total - offset
		}
		if count < 0 {
			count = 0
		}

		products := make([]map[string]any, 0, count)
		for i := 0; i < count; i++ {
			products = append(products, map[string]any{
				"id":   fmt.Sprintf("p-%s-%d", query, offset+i),
				"name": fmt.Sprintf("Product %d", offset+i),
			})
		}

		payload := map[string]any{
			"success": true,
			"data": map[string]any{
				"products": products,
				"facets": []map[string]any{
					{"key": "color", "label": "Couleur", "values": []string{"rouge", "bleu"}},
				},
				"total":    total,
				"offset":   offset,
				"has_more": offset+count < total,
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	})
}

func newTestBrowser(t *testing.T, stub *listingStub) *Browser {
	t.Helper()
	server := httptest.NewServer(stub.handler())
	t.Cleanup(server.Close)

	client, err := upstream.NewClient(&upstream.Config{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	}, zap.NewNop())
	require.NoError(t, err)

	svc := NewService(client, cache.NopListingCache{}, time.Minute, zap.NewNop())
	return svc.Browser("visitor-1")
}

func TestBrowser_RefreshAndLoadMore(t *testing.T) {
	ctx := context.Background()
	browser := newTestBrowser(t, &listingStub{})

	view, err := browser.Refresh(ctx)
	require.NoError(t, err)
	assert.Len(t, view.Products, catalog.PageSize)
	assert.Equal(t, 60, view.Total)
	assert.True(t, view.HasMore)

	view, err = browser.LoadMore(ctx)
	require.NoError(t, err)
	assert.Len(t, view.Products, 2*catalog.PageSize)
	assert.True(t, view.HasMore)

	view, err = browser.LoadMore(ctx)
	require.NoError(t, err)
	assert.Len(t, view.Products, 60)
	assert.False(t, view.HasMore)

	// Exhausted listing: load-more is a no-op, no extra fetch
	stubView, err := browser.LoadMore(ctx)
	require.NoError(t, err)
	assert.Len(t, stubView.Products, 60)
}

func TestBrowser_FilterChangeResetsAccumulation(t *testing.T) {
	ctx := context.Background()
	browser := newTestBrowser(t, &listingStub{})

	_, err := browser.Refresh(ctx)
	require.NoError(t, err)
	_, err = browser.LoadMore(ctx)
	require.NoError(t, err)

	view, err := browser.Search(ctx, "lamp")
	require.NoError(t, err)
	assert.Len(t, view.Products, 10)
	assert.Equal(t, 10, view.Total)
	assert.False(t, view.HasMore)
}

func TestBrowser_StaleResponseDiscarded(t *testing.T) {
	ctx := context.Background()
	stub := &listingStub{delays: map[string]time.Duration{
		"slow": 150 * time.Millisecond,
	}}
	browser := newTestBrowser(t, stub)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		// This response arrives after the newer search below has
		// already landed
		_, _ = browser.Search(ctx, "slow")
	}()

	time.Sleep(30 * time.Millisecond)
	_, err := browser.Search(ctx, "fresh")
	require.NoError(t, err)
	wg.Wait()

	// The slow response must not have overwritten the fresh one
	view := browser.View()
	assert.Equal(t, "fresh", view.Filters.Query)
	require.NotEmpty(t, view.Products)
	assert.Contains(t, view.Products[0].ID, "p-fresh-")
}

func TestBrowser_PriceRangeValidationLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	browser := newTestBrowser(t, &listingStub{})

	_, err := browser.SetPriceRange(ctx, "10", "50")
	require.NoError(t, err)

	_, err = browser.SetPriceRange(ctx, "90", "20")
	require.Error(t, err)

	// Committed range survived the rejected input
	view := browser.View()
	require.NotNil(t, view.Filters.Price.Min)
	assert.Equal(t, "10", view.Filters.Price.Min.String())
	require.NotNil(t, view.Filters.Price.Max)
	assert.Equal(t, "50", view.Filters.Price.Max.String())
}

func TestBrowser_ToggleSpecificationRefetches(t *testing.T) {
	ctx := context.Background()
	browser := newTestBrowser(t, &listingStub{})

	view, err := browser.ToggleSpecification(ctx, "color", "rouge", true)
	require.NoError(t, err)
	assert.Equal(t, 5, view.Total)
	assert.Equal(t, []string{"rouge"}, view.Filters.Specifications["color"])

	view, err = browser.ToggleSpecification(ctx, "color", "rouge", false)
	require.NoError(t, err)
	assert.Equal(t, 60, view.Total)
	assert.NotContains(t, view.Filters.Specifications, "color")
}

func TestBrowser_ClearFiltersKeepsCategory(t *testing.T) {
	ctx := context.Background()
	browser := newTestBrowser(t, &listingStub{})

	_, err := browser.SetCategory(ctx, "furniture")
	require.NoError(t, err)
	_, err = browser.Search(ctx, "lamp")
	require.NoError(t, err)

	view, err := browser.ClearFilters(ctx)
	require.NoError(t, err)
	assert.Equal(t, "furniture", view.Filters.CategorySlug)
	assert.Empty(t, view.Filters.Query)
}

func TestService_SweepDropsIdleBrowsers(t *testing.T) {
	server := httptest.NewServer((&listingStub{}).handler())
	t.Cleanup(server.Close)

	client, err := upstream.NewClient(&upstream.Config{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	}, zap.NewNop())
	require.NoError(t, err)

	svc := NewService(client, cache.NopListingCache{}, time.Minute, zap.NewNop())
	svc.Browser("v1")
	svc.Browser("v2")

	// Nothing is idle yet
	assert.Zero(t, svc.Sweep(time.Hour))
	// Everything is idle against a zero window
	assert.Equal(t, 2, svc.Sweep(0))
}

func TestBrowser_UsesListingCache(t *testing.T) {
	ctx := context.Background()
	stub := &listingStub{}
	server := httptest.NewServer(stub.handler())
	t.Cleanup(server.Close)

	client, err := upstream.NewClient(&upstream.Config{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	}, zap.NewNop())
	require.NoError(t, err)

	svc := NewService(client, cache.NewMemoryListingCache(), time.Minute, zap.NewNop())
	browser := svc.Browser("v1")

	_, err = browser.Refresh(ctx)
	require.NoError(t, err)
	_, err = browser.Refresh(ctx)
	require.NoError(t, err)

	stub.mu.Lock()
	calls := stub.calls
	stub.mu.Unlock()
	assert.Equal(t, 1, calls)
}
