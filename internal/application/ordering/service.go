package ordering

import (
	"context"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shopfront/gateway/internal/domain/ordering"
	"github.com/shopfront/gateway/internal/domain/shared"
	"github.com/shopfront/gateway/internal/infrastructure/upstream"
)

// Service exposes back-office order operations. Every mutation goes to
// the platform and the refreshed order comes back with the response,
// so callers never work from a locally patched copy.
type Service struct {
	client *upstream.Client
	logger *zap.Logger

	// actions serializes document and email actions per order: a
	// second action on the same order is rejected until the first
	// completes
	actions actionGate
}

// NewService creates the order service
func NewService(client *upstream.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client: client,
		logger: logger,
	}
}

// List returns a page of orders
func (s *Service) List(ctx context.Context, token string, query upstream.OrderListQuery) ([]ordering.Order, *shared.Pagination, error) {
	return s.client.ListOrders(ctx, token, query)
}

// Get returns a single order
func (s *Service) Get(ctx context.Context, token, orderID string) (*ordering.Order, error) {
	return s.client.GetOrder(ctx, token, orderID)
}

// ChangeStatus moves an order to a new status. The full status set is
// offered; the platform owns any transition rules. An optional note is
// recorded with the change.
func (s *Service) ChangeStatus(ctx context.Context, token, orderID string, status ordering.Status, note string) (*ordering.Order, error) {
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "unknown order status: "+string(status))
	}
	return s.client.UpdateOrderStatus(ctx, token, orderID, status, strings.TrimSpace(note))
}

// Cancel records a cancellation on an order. Terminal orders cannot be
// cancelled and a reason is mandatory. The request kind is classified
// from the explicit kind or, for legacy callers, from the reason text.
func (s *Service) Cancel(ctx context.Context, token, orderID, reason string, kind ordering.RequestKind) (*ordering.Order, error) {
	reason, err := ordering.ValidateNote(reason)
	if err != nil {
		return nil, shared.NewDomainError("REASON_REQUIRED", "a cancellation reason is required")
	}

	order, err := s.client.GetOrder(ctx, token, orderID)
	if err != nil {
		return nil, err
	}
	if !order.CanCancel() {
		return nil, shared.NewDomainError("ORDER_TERMINAL", "order is already completed or cancelled")
	}

	resolved := ordering.ClassifyRequest(kind, reason)
	return s.client.CancelOrder(ctx, token, orderID, upstream.CancelOrderRequest{
		Reason: reason,
		Kind:   resolved,
	})
}

// ResolveCancellation approves or rejects a customer's pending
// cancellation request. It is only valid while the order carries such
// a request. RefundAmount overrides the full-total refund when set.
func (s *Service) ResolveCancellation(ctx context.Context, token, orderID string, resolution ordering.Resolution, note string, refundAmount *decimal.Decimal) (*ordering.Order, error) {
	if !resolution.IsValid() {
		return nil, shared.NewDomainError("INVALID_RESOLUTION", "resolution must be approve or reject")
	}

	order, err := s.client.GetOrder(ctx, token, orderID)
	if err != nil {
		return nil, err
	}
	if !order.HasPendingCancellationRequest() {
		return nil, shared.NewDomainError("NO_PENDING_REQUEST", "order has no pending cancellation request")
	}

	if refundAmount != nil && refundAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_REFUND_AMOUNT", "refund amount cannot be negative")
	}

	return s.client.ResolveCancellation(ctx, token, orderID, upstream.ResolveCancellationRequest{
		Resolution:   resolution,
		Note:         note,
		RefundAmount: refundAmount,
	})
}

// AddNote appends a staff note to an order
func (s *Service) AddNote(ctx context.Context, token, orderID, note string) (*ordering.Order, error) {
	note, err := ordering.ValidateNote(note)
	if err != nil {
		return nil, shared.NewDomainError("NOTE_REQUIRED", "note text is required")
	}
	return s.client.AddOrderNote(ctx, token, orderID, note)
}

// GenerateDocument produces a commercial document for the order. It
// returns the fresh document descriptor together with the refreshed
// order carrying it. Only one document or email action may run per
// order at a time.
func (s *Service) GenerateDocument(ctx context.Context, token, orderID string, kind ordering.DocumentKind) (*ordering.Document, *ordering.Order, error) {
	if !kind.IsValid() {
		return nil, nil, shared.NewDomainError("INVALID_DOCUMENT_KIND", "unknown document kind: "+string(kind))
	}
	if !s.actions.tryAcquire(orderID) {
		return nil, nil, shared.ErrActionInFlight
	}
	defer s.actions.release(orderID)

	doc, err := s.client.GenerateDocument(ctx, token, orderID, kind)
	if err != nil {
		return nil, nil, err
	}
	// The document list lives on the order; refetch so the caller sees
	// the platform's view rather than a guess
	order, err := s.client.GetOrder(ctx, token, orderID)
	if err != nil {
		return nil, nil, err
	}
	return doc, order, nil
}

// SendEmail triggers a transactional email for the order. It shares
// the per-order action gate with document generation.
func (s *Service) SendEmail(ctx context.Context, token, orderID string, kind ordering.EmailKind) (*ordering.Order, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_EMAIL_KIND", "unknown email kind: "+string(kind))
	}
	if !s.actions.tryAcquire(orderID) {
		return nil, shared.ErrActionInFlight
	}
	defer s.actions.release(orderID)

	if err := s.client.SendOrderEmail(ctx, token, orderID, kind); err != nil {
		return nil, err
	}
	return s.client.GetOrder(ctx, token, orderID)
}

// actionGate tracks in-flight actions keyed by order ID
type actionGate struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func (g *actionGate) tryAcquire(orderID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inFlight == nil {
		g.inFlight = make(map[string]struct{})
	}
	if _, busy := g.inFlight[orderID]; busy {
		return false
	}
	g.inFlight[orderID] = struct{}{}
	return true
}

func (g *actionGate) release(orderID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, orderID)
}
