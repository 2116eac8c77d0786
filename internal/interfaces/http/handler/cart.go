package handler

import (
	"github.com/gin-gonic/gin"

	appcart "github.com/shopfront/gateway/internal/application/cart"
	"github.com/shopfront/gateway/internal/interfaces/http/middleware"
)

// CartHandler serves the storefront cart endpoints, all scoped to the
// authenticated customer session
type CartHandler struct {
	BaseHandler
	svc *appcart.Service
}

// NewCartHandler creates the cart handler
func NewCartHandler(svc *appcart.Service) *CartHandler {
	return &CartHandler{svc: svc}
}

func (h *CartHandler) sessionID(c *gin.Context) string {
	if principal := middleware.GetPrincipal(c); principal != nil {
		return principal.SessionID
	}
	return ""
}

// Get handles GET /store/cart
func (h *CartHandler) Get(c *gin.Context) {
	cart, err := h.svc.Get(c.Request.Context(), middleware.GetUpstreamToken(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, cart)
}

type addItemRequest struct {
	ProductID string            `json:"product_id" binding:"required"`
	Quantity  int               `json:"quantity"`
	Options   map[string]string `json:"options"`
}

// AddItem handles POST /store/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "product_id is required")
		return
	}

	cart, err := h.svc.AddItem(c.Request.Context(), middleware.GetUpstreamToken(c),
		req.ProductID, req.Quantity, req.Options)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, cart)
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateQuantity handles PATCH /store/cart/items/:id
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "quantity is required")
		return
	}

	cart, err := h.svc.UpdateQuantity(c.Request.Context(), h.sessionID(c), middleware.GetUpstreamToken(c),
		c.Param("id"), req.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, cart)
}

// RemoveItem handles DELETE /store/cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	cart, err := h.svc.RemoveItem(c.Request.Context(), h.sessionID(c), middleware.GetUpstreamToken(c), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, cart)
}

type promotionRequest struct {
	Code string `json:"code" binding:"required"`
}

// ApplyPromotion handles POST /store/cart/promotion
func (h *CartHandler) ApplyPromotion(c *gin.Context) {
	var req promotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "code is required")
		return
	}

	cart, err := h.svc.ApplyPromotion(c.Request.Context(), middleware.GetUpstreamToken(c), req.Code)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, cart)
}

// RemovePromotion handles DELETE /store/cart/promotion
func (h *CartHandler) RemovePromotion(c *gin.Context) {
	cart, err := h.svc.RemovePromotion(c.Request.Context(), middleware.GetUpstreamToken(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, cart)
}
