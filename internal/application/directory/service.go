package directory

import (
	"context"

	"go.uber.org/zap"

	"github.com/shopfront/gateway/internal/domain/identity"
	"github.com/shopfront/gateway/internal/domain/shared"
	"github.com/shopfront/gateway/internal/infrastructure/upstream"
)

// Service exposes the back-office directory resources. These are pure
// pass-throughs: the platform validates and owns the data, the
// gateway only enforces that a staff session is present.
type Service struct {
	client *upstream.Client
	logger *zap.Logger
}

// NewService creates the directory service
func NewService(client *upstream.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, logger: logger}
}

func (s *Service) ListTaxes(ctx context.Context, token string, page, limit int) ([]upstream.Tax, *shared.Pagination, error) {
	return s.client.ListTaxes(ctx, token, page, limit)
}

func (s *Service) CreateTax(ctx context.Context, token string, input upstream.TaxInput) (*upstream.Tax, error) {
	return s.client.CreateTax(ctx, token, input)
}

func (s *Service) UpdateTax(ctx context.Context, token, id string, input upstream.TaxInput) (*upstream.Tax, error) {
	return s.client.UpdateTax(ctx, token, id, input)
}

func (s *Service) DeleteTax(ctx context.Context, token, id string) error {
	return s.client.DeleteTax(ctx, token, id)
}

func (s *Service) ListPromotions(ctx context.Context, token string, page, limit int) ([]upstream.Promotion, *shared.Pagination, error) {
	return s.client.ListPromotions(ctx, token, page, limit)
}

func (s *Service) CreatePromotion(ctx context.Context, token string, input upstream.PromotionInput) (*upstream.Promotion, error) {
	return s.client.CreatePromotion(ctx, token, input)
}

func (s *Service) UpdatePromotion(ctx context.Context, token, id string, input upstream.PromotionInput) (*upstream.Promotion, error) {
	return s.client.UpdatePromotion(ctx, token, id, input)
}

func (s *Service) DeletePromotion(ctx context.Context, token, id string) error {
	return s.client.DeletePromotion(ctx, token, id)
}

func (s *Service) ListGiftCards(ctx context.Context, token string, page, limit int) ([]upstream.GiftCard, *shared.Pagination, error) {
	return s.client.ListGiftCards(ctx, token, page, limit)
}

func (s *Service) CreateGiftCard(ctx context.Context, token string, input upstream.GiftCardInput) (*upstream.GiftCard, error) {
	return s.client.CreateGiftCard(ctx, token, input)
}

func (s *Service) UpdateGiftCard(ctx context.Context, token, id string, input upstream.GiftCardInput) (*upstream.GiftCard, error) {
	return s.client.UpdateGiftCard(ctx, token, id, input)
}

func (s *Service) DeleteGiftCard(ctx context.Context, token, id string) error {
	return s.client.DeleteGiftCard(ctx, token, id)
}

func (s *Service) ListCustomers(ctx context.Context, token string, page, limit int, search string) ([]identity.Customer, *shared.Pagination, error) {
	return s.client.ListCustomers(ctx, token, page, limit, search)
}

func (s *Service) GetCustomer(ctx context.Context, token, id string) (*identity.Customer, error) {
	return s.client.GetCustomer(ctx, token, id)
}

func (s *Service) DeleteCustomer(ctx context.Context, token, id string) error {
	return s.client.DeleteCustomer(ctx, token, id)
}
