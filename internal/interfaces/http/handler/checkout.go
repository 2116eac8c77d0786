package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/shopfront/gateway/internal/domain/ordering"
	"github.com/shopfront/gateway/internal/infrastructure/upstream"
	"github.com/shopfront/gateway/internal/interfaces/http/dto"
	"github.com/shopfront/gateway/internal/interfaces/http/middleware"
)

// CheckoutHandler serves the storefront order endpoints: the public
// order lookup and the customer's own order history
type CheckoutHandler struct {
	BaseHandler
	client *upstream.Client
}

// NewCheckoutHandler creates the checkout handler
func NewCheckoutHandler(client *upstream.Client) *CheckoutHandler {
	return &CheckoutHandler{client: client}
}

type lookupRequest struct {
	OrderNumber string `json:"order_number" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
}

// Lookup handles POST /store/order-lookup. It is the only order
// endpoint reachable without a customer session; the platform matches
// the order number against the billing email before answering.
func (h *CheckoutHandler) Lookup(c *gin.Context) {
	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "order_number and email are required")
		return
	}

	order, err := h.client.LookupOrder(c.Request.Context(), req.OrderNumber, req.Email)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, newOrderView(*order, c.GetHeader("Accept-Language")))
}

// Orders handles GET /store/orders
func (h *CheckoutHandler) Orders(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "invalid listing parameters")
		return
	}

	orders, pagination, err := h.client.CustomerOrders(c.Request.Context(), middleware.GetUpstreamToken(c), req.Page, req.Limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessWithPagination(c, newOrderViews(orders, c.GetHeader("Accept-Language")), pagination)
}

type customerCancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// RequestCancellation handles POST /store/orders/:id/cancellation. The
// request lands as a pending cancellation on the order; the back office
// resolves it.
func (h *CheckoutHandler) RequestCancellation(c *gin.Context) {
	var req customerCancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "reason is required")
		return
	}
	reason, err := ordering.ValidateNote(req.Reason)
	if err != nil {
		h.Error(c, err)
		return
	}

	order, err := h.client.RequestOrderCancellation(c.Request.Context(), middleware.GetUpstreamToken(c), c.Param("id"),
		upstream.CancelOrderRequest{Reason: reason, Kind: ordering.ClassifyRequest("", reason)})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, newOrderView(*order, c.GetHeader("Accept-Language")))
}
