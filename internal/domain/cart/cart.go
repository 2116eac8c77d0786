package cart

import (
	"github.com/shopspring/decimal"

	"github.com/shopfront/gateway/internal/domain/ordering"
)

// MinQuantity is the lowest quantity a cart line may carry. Decrements
// below it are refused before any platform call is made. There is no local
// upper bound; the platform core rejects excessive quantities itself.
const MinQuantity = 1

// Cart is the gateway's projection of a customer's active cart. The
// platform core owns it: after every mutation the cart is refetched in
// full, never merged locally.
type Cart struct {
	ID                   string          `json:"id"`
	Items                []Item          `json:"items"`
	Subtotal             decimal.Decimal `json:"subtotal"`
	Tax                  decimal.Decimal `json:"tax"`
	ShippingFee          decimal.Decimal `json:"shipping_fee"`
	PromotionDiscount    decimal.Decimal `json:"promotion_discount"`
	ShippingDiscount     decimal.Decimal `json:"shipping_discount"`
	AppliedPromotionCode string          `json:"applied_promotion_code,omitempty"`
	Total                decimal.Decimal `json:"total"`
}

// Item is one cart line with its product snapshot.
type Item struct {
	ID              string               `json:"cart_item_id"`
	ProductID       string               `json:"product_id"`
	ProductName     string               `json:"product_name"`
	ProductSlug     string               `json:"product_slug,omitempty"`
	ImageURL        string               `json:"image_url,omitempty"`
	Quantity        int                  `json:"quantity"`
	UnitPrice       decimal.Decimal      `json:"unit_price"`
	TotalPrice      decimal.Decimal      `json:"total_price"`
	SelectedOptions map[string]string    `json:"selected_options,omitempty"`
	Dimensions      *ordering.Dimensions `json:"dimensions,omitempty"`
}

// Item returns the cart line with the given id, or nil.
func (c *Cart) Item(itemID string) *Item {
	for idx := range c.Items {
		if c.Items[idx].ID == itemID {
			return &c.Items[idx]
		}
	}
	return nil
}

// HasPromotion reports whether a promotion code is currently applied.
func (c *Cart) HasPromotion() bool {
	return c.AppliedPromotionCode != ""
}
