package ordering

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopfront/gateway/internal/domain/shared"
)

// Order is the gateway's projection of an order as owned by the platform
// core. It is never mutated locally: every admin action round-trips through
// the platform API and is followed by a full refetch.
type Order struct {
	ID          string      `json:"id"`
	OrderNumber string      `json:"order_number"`
	Status      Status      `json:"status"`
	Totals      Totals      `json:"totals"`
	Customer    Customer    `json:"customer"`
	Shipping    Address     `json:"shipping_address"`
	Billing     Address     `json:"billing_address"`
	Items       []LineItem  `json:"items"`
	StaffNotes  []StaffNote `json:"staff_notes"`
	Documents   []Document  `json:"documents"`

	CancellationReason      string      `json:"cancellation_reason,omitempty"`
	CancellationRequestKind RequestKind `json:"cancellation_request_kind,omitempty"`
	CancellationRequestedAt *time.Time  `json:"cancellation_requested_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Totals carries the order pricing breakdown. All amounts are computed by
// the platform core; the gateway only renders them.
type Totals struct {
	Subtotal          decimal.Decimal `json:"subtotal"`
	Tax               decimal.Decimal `json:"tax"`
	ShippingFee       decimal.Decimal `json:"shipping_fee"`
	PromotionDiscount decimal.Decimal `json:"promotion_discount"`
	ShippingDiscount  decimal.Decimal `json:"shipping_discount"`
	Total             decimal.Decimal `json:"total"`
}

// Customer is the order's customer reference snapshot.
type Customer struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

// Address is an immutable address snapshot taken at checkout.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// LineItem is one order line with its product snapshot.
type LineItem struct {
	ID              string            `json:"id"`
	ProductID       string            `json:"product_id"`
	ProductName     string            `json:"product_name"`
	ProductSlug     string            `json:"product_slug,omitempty"`
	ImageURL        string            `json:"image_url,omitempty"`
	Quantity        int               `json:"quantity"`
	UnitPrice       decimal.Decimal   `json:"unit_price"`
	TotalPrice      decimal.Decimal   `json:"total_price"`
	SelectedOptions map[string]string `json:"selected_options,omitempty"`
	Services        []string          `json:"services,omitempty"`
	Dimensions      *Dimensions       `json:"dimensions,omitempty"`
}

// Dimensions describes made-to-measure products.
type Dimensions struct {
	Width  decimal.Decimal `json:"width"`
	Height decimal.Decimal `json:"height"`
	Depth  decimal.Decimal `json:"depth,omitempty"`
	Unit   string          `json:"unit"`
}

// StaffNote is one entry of the append-only admin note trail. Notes are
// never edited or deleted.
type StaffNote struct {
	Note      string    `json:"note"`
	StaffID   string    `json:"staff_id"`
	StaffName string    `json:"staff_name"`
	CreatedAt time.Time `json:"created_at"`
}

// Document references a PDF generated by the platform core. The gateway
// hands the URL to clients and never renders the artifact itself.
type Document struct {
	Kind        DocumentKind `json:"kind"`
	URL         string       `json:"url"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// CanCancel reports whether the admin cancel action is available for this
// order. Mirrors Status.CanCancel; kept on the order for handler ergonomics.
func (o *Order) CanCancel() bool {
	return o.Status.CanCancel()
}

// HasPendingCancellationRequest reports whether the approve/reject panel
// should be surfaced for this order.
func (o *Order) HasPendingCancellationRequest() bool {
	return o.Status.HasPendingCancellationRequest()
}

// ValidateNote checks an admin-supplied note. Both the cancel action and
// staff notes require non-empty trimmed text.
func ValidateNote(note string) (string, error) {
	trimmed := strings.TrimSpace(note)
	if trimmed == "" {
		return "", shared.NewDomainError("INVALID_NOTE", "Note cannot be empty")
	}
	return trimmed, nil
}
