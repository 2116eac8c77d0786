package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopfront/gateway/internal/domain/ordering"
	"github.com/shopfront/gateway/internal/domain/shared"
)

// OrderListQuery filters the back-office order listing
type OrderListQuery struct {
	Page     int
	Limit    int
	Status   ordering.Status
	Search   string
	DateFrom *time.Time
	DateTo   *time.Time
}

func (q OrderListQuery) values() url.Values {
	values := url.Values{}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Status != "" {
		values.Set("status", string(q.Status))
	}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	if q.DateFrom != nil {
		values.Set("date_from", q.DateFrom.Format(time.RFC3339))
	}
	if q.DateTo != nil {
		values.Set("date_to", q.DateTo.Format(time.RFC3339))
	}
	return values
}

// ListOrders fetches a page of orders for the back office
func (c *Client) ListOrders(ctx context.Context, token string, query OrderListQuery) ([]ordering.Order, *shared.Pagination, error) {
	var orders []ordering.Order
	pagination, err := c.get(ctx, "/admin/orders", query.values(), token, &orders)
	if err != nil {
		return nil, nil, err
	}
	return orders, pagination, nil
}

// GetOrder fetches a single order by ID
func (c *Client) GetOrder(ctx context.Context, token, orderID string) (*ordering.Order, error) {
	var order ordering.Order
	if _, err := c.get(ctx, "/admin/orders/"+url.PathEscape(orderID), nil, token, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrderStatus moves an order to a new status and returns the
// refreshed order. An optional note is recorded alongside the change.
func (c *Client) UpdateOrderStatus(ctx context.Context, token, orderID string, status ordering.Status, note string) (*ordering.Order, error) {
	body := map[string]string{"status": string(status)}
	if note != "" {
		body["note"] = note
	}
	var order ordering.Order
	path := fmt.Sprintf("/admin/orders/%s/status", url.PathEscape(orderID))
	if err := c.send(ctx, http.MethodPatch, path, body, token, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelOrderRequest carries the cancellation payload. Kind tells the
// platform whether this is a plain cancellation or a refund request.
type CancelOrderRequest struct {
	Reason string               `json:"reason"`
	Kind   ordering.RequestKind `json:"kind"`
}

// CancelOrder records a cancellation on the platform
func (c *Client) CancelOrder(ctx context.Context, token, orderID string, req CancelOrderRequest) (*ordering.Order, error) {
	var order ordering.Order
	path := fmt.Sprintf("/admin/orders/%s/cancel", url.PathEscape(orderID))
	if err := c.send(ctx, http.MethodPost, path, req, token, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ResolveCancellationRequest approves or rejects a customer's pending
// cancellation request. RefundAmount is only sent when the platform
// should refund a specific amount instead of the full total.
type ResolveCancellationRequest struct {
	Resolution   ordering.Resolution `json:"resolution"`
	Note         string              `json:"note,omitempty"`
	RefundAmount *decimal.Decimal    `json:"refund_amount,omitempty"`
}

// ResolveCancellation settles a pending cancellation request
func (c *Client) ResolveCancellation(ctx context.Context, token, orderID string, req ResolveCancellationRequest) (*ordering.Order, error) {
	var order ordering.Order
	path := fmt.Sprintf("/admin/orders/%s/cancellation", url.PathEscape(orderID))
	if err := c.send(ctx, http.MethodPost, path, req, token, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// AddOrderNote appends a staff note to an order
func (c *Client) AddOrderNote(ctx context.Context, token, orderID, note string) (*ordering.Order, error) {
	body := map[string]string{"note": note}
	var order ordering.Order
	path := fmt.Sprintf("/admin/orders/%s/notes", url.PathEscape(orderID))
	if err := c.send(ctx, http.MethodPost, path, body, token, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GenerateDocument asks the platform to produce a commercial document
// for the order and returns its descriptor
func (c *Client) GenerateDocument(ctx context.Context, token, orderID string, kind ordering.DocumentKind) (*ordering.Document, error) {
	body := map[string]string{"kind": string(kind)}
	var doc ordering.Document
	path := fmt.Sprintf("/admin/orders/%s/documents", url.PathEscape(orderID))
	if err := c.send(ctx, http.MethodPost, path, body, token, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// SendOrderEmail triggers a transactional email for the order
func (c *Client) SendOrderEmail(ctx context.Context, token, orderID string, kind ordering.EmailKind) error {
	body := map[string]string{"kind": string(kind)}
	path := fmt.Sprintf("/admin/orders/%s/emails", url.PathEscape(orderID))
	return c.send(ctx, http.MethodPost, path, body, token, nil)
}

// LookupOrder fetches an order for a customer by order number and
// email. This backs the public order tracking page and uses the
// gateway service token.
func (c *Client) LookupOrder(ctx context.Context, orderNumber, email string) (*ordering.Order, error) {
	values := url.Values{}
	values.Set("order_number", orderNumber)
	values.Set("email", email)
	var order ordering.Order
	if _, err := c.get(ctx, "/store/orders/lookup", values, "", &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CustomerOrders fetches the authenticated customer's order history
func (c *Client) CustomerOrders(ctx context.Context, token string, page, limit int) ([]ordering.Order, *shared.Pagination, error) {
	values := url.Values{}
	if page > 0 {
		values.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	var orders []ordering.Order
	pagination, err := c.get(ctx, "/store/orders", values, token, &orders)
	if err != nil {
		return nil, nil, err
	}
	return orders, pagination, nil
}

// RequestOrderCancellation lets a customer ask for their order to be
// cancelled or refunded
func (c *Client) RequestOrderCancellation(ctx context.Context, token, orderID string, req CancelOrderRequest) (*ordering.Order, error) {
	var order ordering.Order
	path := fmt.Sprintf("/store/orders/%s/cancellation-request", url.PathEscape(orderID))
	if err := c.send(ctx, http.MethodPost, path, req, token, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
