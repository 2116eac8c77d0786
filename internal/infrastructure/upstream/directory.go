package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopfront/gateway/internal/domain/identity"
	"github.com/shopfront/gateway/internal/domain/shared"
)

// ---------------------------------------------------------------------------
// Back-office directory resources: taxes, promotions, gift cards,
// customers. The gateway does not interpret these, it forwards them.
// ---------------------------------------------------------------------------

// Tax is a tax rate entry
type Tax struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Rate      decimal.Decimal `json:"rate"`
	Region    string          `json:"region,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TaxInput is the create/update payload for a tax rate
type TaxInput struct {
	Name   string          `json:"name"`
	Rate   decimal.Decimal `json:"rate"`
	Region string          `json:"region,omitempty"`
}

// Promotion is a promotion code entry
type Promotion struct {
	ID        string          `json:"id"`
	Code      string          `json:"code"`
	Kind      string          `json:"kind"`
	Value     decimal.Decimal `json:"value"`
	StartsAt  *time.Time      `json:"starts_at,omitempty"`
	EndsAt    *time.Time      `json:"ends_at,omitempty"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// PromotionInput is the create/update payload for a promotion
type PromotionInput struct {
	Code     string          `json:"code"`
	Kind     string          `json:"kind"`
	Value    decimal.Decimal `json:"value"`
	StartsAt *time.Time      `json:"starts_at,omitempty"`
	EndsAt   *time.Time      `json:"ends_at,omitempty"`
	Active   bool            `json:"active"`
}

// GiftCard is a gift card entry
type GiftCard struct {
	ID        string          `json:"id"`
	Code      string          `json:"code"`
	Balance   decimal.Decimal `json:"balance"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
}

// GiftCardInput is the create/update payload for a gift card
type GiftCardInput struct {
	Code      string          `json:"code"`
	Balance   decimal.Decimal `json:"balance"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
	Active    bool            `json:"active"`
}

func pageValues(page, limit int, search string) url.Values {
	values := url.Values{}
	if page > 0 {
		values.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	if search != "" {
		values.Set("search", search)
	}
	return values
}

// ---------------------------------------------------------------------------
// Taxes
// ---------------------------------------------------------------------------

func (c *Client) ListTaxes(ctx context.Context, token string, page, limit int) ([]Tax, *shared.Pagination, error) {
	var taxes []Tax
	pagination, err := c.get(ctx, "/admin/taxes", pageValues(page, limit, ""), token, &taxes)
	if err != nil {
		return nil, nil, err
	}
	return taxes, pagination, nil
}

func (c *Client) CreateTax(ctx context.Context, token string, input TaxInput) (*Tax, error) {
	var tax Tax
	if err := c.send(ctx, http.MethodPost, "/admin/taxes", input, token, &tax); err != nil {
		return nil, err
	}
	return &tax, nil
}

func (c *Client) UpdateTax(ctx context.Context, token, id string, input TaxInput) (*Tax, error) {
	var tax Tax
	if err := c.send(ctx, http.MethodPut, "/admin/taxes/"+url.PathEscape(id), input, token, &tax); err != nil {
		return nil, err
	}
	return &tax, nil
}

func (c *Client) DeleteTax(ctx context.Context, token, id string) error {
	return c.send(ctx, http.MethodDelete, "/admin/taxes/"+url.PathEscape(id), nil, token, nil)
}

// ---------------------------------------------------------------------------
// Promotions
// ---------------------------------------------------------------------------

func (c *Client) ListPromotions(ctx context.Context, token string, page, limit int) ([]Promotion, *shared.Pagination, error) {
	var promotions []Promotion
	pagination, err := c.get(ctx, "/admin/promotions", pageValues(page, limit, ""), token, &promotions)
	if err != nil {
		return nil, nil, err
	}
	return promotions, pagination, nil
}

func (c *Client) CreatePromotion(ctx context.Context, token string, input PromotionInput) (*Promotion, error) {
	var promotion Promotion
	if err := c.send(ctx, http.MethodPost, "/admin/promotions", input, token, &promotion); err != nil {
		return nil, err
	}
	return &promotion, nil
}

func (c *Client) UpdatePromotion(ctx context.Context, token, id string, input PromotionInput) (*Promotion, error) {
	var promotion Promotion
	if err := c.send(ctx, http.MethodPut, "/admin/promotions/"+url.PathEscape(id), input, token, &promotion); err != nil {
		return nil, err
	}
	return &promotion, nil
}

func (c *Client) DeletePromotion(ctx context.Context, token, id string) error {
	return c.send(ctx, http.MethodDelete, "/admin/promotions/"+url.PathEscape(id), nil, token, nil)
}

// ---------------------------------------------------------------------------
// Gift cards
// ---------------------------------------------------------------------------

func (c *Client) ListGiftCards(ctx context.Context, token string, page, limit int) ([]GiftCard, *shared.Pagination, error) {
	var cards []GiftCard
	pagination, err := c.get(ctx, "/admin/gift-cards", pageValues(page, limit, ""), token, &cards)
	if err != nil {
		return nil, nil, err
	}
	return cards, pagination, nil
}

func (c *Client) CreateGiftCard(ctx context.Context, token string, input GiftCardInput) (*GiftCard, error) {
	var card GiftCard
	if err := c.send(ctx, http.MethodPost, "/admin/gift-cards", input, token, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *Client) UpdateGiftCard(ctx context.Context, token, id string, input GiftCardInput) (*GiftCard, error) {
	var card GiftCard
	if err := c.send(ctx, http.MethodPut, "/admin/gift-cards/"+url.PathEscape(id), input, token, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *Client) DeleteGiftCard(ctx context.Context, token, id string) error {
	return c.send(ctx, http.MethodDelete, "/admin/gift-cards/"+url.PathEscape(id), nil, token, nil)
}

// ---------------------------------------------------------------------------
// Customers
// ---------------------------------------------------------------------------

func (c *Client) ListCustomers(ctx context.Context, token string, page, limit int, search string) ([]identity.Customer, *shared.Pagination, error) {
	var customers []identity.Customer
	pagination, err := c.get(ctx, "/admin/customers", pageValues(page, limit, search), token, &customers)
	if err != nil {
		return nil, nil, err
	}
	return customers, pagination, nil
}

func (c *Client) GetCustomer(ctx context.Context, token, id string) (*identity.Customer, error) {
	var customer identity.Customer
	if _, err := c.get(ctx, "/admin/customers/"+url.PathEscape(id), nil, token, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (c *Client) DeleteCustomer(ctx context.Context, token, id string) error {
	return c.send(ctx, http.MethodDelete, "/admin/customers/"+url.PathEscape(id), nil, token, nil)
}
