package cart

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/shopfront/gateway/internal/domain/cart"
	"github.com/shopfront/gateway/internal/domain/shared"
	"github.com/shopfront/gateway/internal/infrastructure/upstream"
)

// ErrItemBusy is returned when a mutation is already running for the
// same cart line
var ErrItemBusy = shared.ErrActionInFlight

// Service exposes cart operations. Totals are always the platform's:
// after every successful mutation the cart is refetched rather than
// recomputed locally, so promotion and tax math can never drift.
type Service struct {
	client *upstream.Client
	logger *zap.Logger

	// busy tracks cart lines with a mutation in flight, keyed by
	// session ID + item ID so concurrent customers never contend
	mu   sync.Mutex
	busy map[string]struct{}
}

// NewService creates the cart service
func NewService(client *upstream.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client: client,
		logger: logger,
		busy:   make(map[string]struct{}),
	}
}

// Get returns the customer's current cart
func (s *Service) Get(ctx context.Context, token string) (*cart.Cart, error) {
	return s.client.GetCart(ctx, token)
}

// AddItem adds a product to the cart and returns the refreshed cart
func (s *Service) AddItem(ctx context.Context, token, productID string, quantity int, options map[string]string) (*cart.Cart, error) {
	if quantity < cart.MinQuantity {
		quantity = cart.MinQuantity
	}
	if err := s.client.AddCartItem(ctx, token, productID, quantity, options); err != nil {
		return nil, err
	}
	return s.client.GetCart(ctx, token)
}

// UpdateQuantity sets the absolute quantity of a cart line and returns
// the refreshed cart. A requested quantity below the floor is a no-op:
// the current cart is returned unchanged and nothing is sent to the
// platform. Removal is an explicit separate operation.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, token, itemID string, quantity int) (*cart.Cart, error) {
	if quantity < cart.MinQuantity {
		return s.client.GetCart(ctx, token)
	}

	if !s.acquire(sessionID, itemID) {
		return nil, ErrItemBusy
	}
	defer s.release(sessionID, itemID)

	if err := s.client.UpdateCartItemQuantity(ctx, token, itemID, quantity); err != nil {
		return nil, err
	}
	return s.client.GetCart(ctx, token)
}

// RemoveItem deletes a cart line and returns the refreshed cart
func (s *Service) RemoveItem(ctx context.Context, sessionID, token, itemID string) (*cart.Cart, error) {
	if !s.acquire(sessionID, itemID) {
		return nil, ErrItemBusy
	}
	defer s.release(sessionID, itemID)

	if err := s.client.RemoveCartItem(ctx, token, itemID); err != nil {
		return nil, err
	}
	return s.client.GetCart(ctx, token)
}

// ApplyPromotion applies a promotion code and returns the refreshed
// cart
func (s *Service) ApplyPromotion(ctx context.Context, token, code string) (*cart.Cart, error) {
	if code == "" {
		return nil, shared.NewDomainError("CODE_REQUIRED", "promotion code is required")
	}
	if err := s.client.ApplyPromotion(ctx, token, code); err != nil {
		return nil, err
	}
	return s.client.GetCart(ctx, token)
}

// RemovePromotion removes the applied promotion code and returns the
// refreshed cart. With no code applied there is nothing to remove and
// no mutation is sent.
func (s *Service) RemovePromotion(ctx context.Context, token string) (*cart.Cart, error) {
	current, err := s.client.GetCart(ctx, token)
	if err != nil {
		return nil, err
	}
	if !current.HasPromotion() {
		return current, nil
	}
	if err := s.client.RemovePromotion(ctx, token); err != nil {
		return nil, err
	}
	return s.client.GetCart(ctx, token)
}

func (s *Service) acquire(sessionID, itemID string) bool {
	key := sessionID + ":" + itemID
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.busy[key]; busy {
		return false
	}
	s.busy[key] = struct{}{}
	return true
}

func (s *Service) release(sessionID, itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.busy, sessionID+":"+itemID)
}
