package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopfront/gateway/internal/domain/cart"
)

// GetCart fetches the customer's current cart
func (c *Client) GetCart(ctx context.Context, token string) (*cart.Cart, error) {
	var result cart.Cart
	if _, err := c.get(ctx, "/store/cart", nil, token, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AddCartItem adds a product to the cart
func (c *Client) AddCartItem(ctx context.Context, token string, productID string, quantity int, options map[string]string) error {
	body := map[string]any{
		"product_id": productID,
		"quantity":   quantity,
	}
	if len(options) > 0 {
		body["selected_options"] = options
	}
	return c.send(ctx, http.MethodPost, "/store/cart/items", body, token, nil)
}

// UpdateCartItemQuantity sets the absolute quantity of a cart line
func (c *Client) UpdateCartItemQuantity(ctx context.Context, token, itemID string, quantity int) error {
	body := map[string]int{"quantity": quantity}
	path := fmt.Sprintf("/store/cart/items/%s", url.PathEscape(itemID))
	return c.send(ctx, http.MethodPatch, path, body, token, nil)
}

// RemoveCartItem deletes a cart line
func (c *Client) RemoveCartItem(ctx context.Context, token, itemID string) error {
	path := fmt.Sprintf("/store/cart/items/%s", url.PathEscape(itemID))
	return c.send(ctx, http.MethodDelete, path, nil, token, nil)
}

// ApplyPromotion applies a promotion code to the cart
func (c *Client) ApplyPromotion(ctx context.Context, token, code string) error {
	body := map[string]string{"code": code}
	return c.send(ctx, http.MethodPost, "/store/cart/promotion", body, token, nil)
}

// RemovePromotion removes the applied promotion code from the cart
func (c *Client) RemovePromotion(ctx context.Context, token string) error {
	return c.send(ctx, http.MethodDelete, "/store/cart/promotion", nil, token, nil)
}
