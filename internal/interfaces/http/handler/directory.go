package handler

import (
	"github.com/gin-gonic/gin"

	appdirectory "github.com/shopfront/gateway/internal/application/directory"
	"github.com/shopfront/gateway/internal/infrastructure/upstream"
	"github.com/shopfront/gateway/internal/interfaces/http/dto"
	"github.com/shopfront/gateway/internal/interfaces/http/middleware"
)

// DirectoryHandler serves the back-office directory endpoints: taxes,
// promotions, gift cards and the customer register
type DirectoryHandler struct {
	BaseHandler
	svc *appdirectory.Service
}

// NewDirectoryHandler creates the directory handler
func NewDirectoryHandler(svc *appdirectory.Service) *DirectoryHandler {
	return &DirectoryHandler{svc: svc}
}

func (h *DirectoryHandler) bindListRequest(c *gin.Context) (dto.ListRequest, bool) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "invalid listing parameters")
		return req, false
	}
	return req, true
}

// ListTaxes handles GET /admin/taxes
func (h *DirectoryHandler) ListTaxes(c *gin.Context) {
	req, ok := h.bindListRequest(c)
	if !ok {
		return
	}
	taxes, pagination, err := h.svc.ListTaxes(c.Request.Context(), middleware.GetUpstreamToken(c), req.Page, req.Limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessWithPagination(c, taxes, pagination)
}

// CreateTax handles POST /admin/taxes
func (h *DirectoryHandler) CreateTax(c *gin.Context) {
	var input upstream.TaxInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "invalid tax payload")
		return
	}
	tax, err := h.svc.CreateTax(c.Request.Context(), middleware.GetUpstreamToken(c), input)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, tax)
}

// UpdateTax handles PUT /admin/taxes/:id
func (h *DirectoryHandler) UpdateTax(c *gin.Context) {
	var input upstream.TaxInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "invalid tax payload")
		return
	}
	tax, err := h.svc.UpdateTax(c.Request.Context(), middleware.GetUpstreamToken(c), c.Param("id"), input)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, tax)
}

// DeleteTax handles DELETE /admin/taxes/:id
func (h *DirectoryHandler) DeleteTax(c *gin.Context) {
	if err := h.svc.DeleteTax(c.Request.Context(), middleware.GetUpstreamToken(c), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// ListPromotions handles GET /admin/promotions
func (h *DirectoryHandler) ListPromotions(c *gin.Context) {
	req, ok := h.bindListRequest(c)
	if !ok {
		return
	}
	promotions, pagination, err := h.svc.ListPromotions(c.Request.Context(), middleware.GetUpstreamToken(c), req.Page, req.Limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessWithPagination(c, promotions, pagination)
}

// CreatePromotion handles POST /admin/promotions
func (h *DirectoryHandler) CreatePromotion(c *gin.Context) {
	var input upstream.PromotionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "invalid promotion payload")
		return
	}
	promotion, err := h.svc.CreatePromotion(c.Request.Context(), middleware.GetUpstreamToken(c), input)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, promotion)
}

// UpdatePromotion handles PUT /admin/promotions/:id
func (h *DirectoryHandler) UpdatePromotion(c *gin.Context) {
	var input upstream.PromotionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "invalid promotion payload")
		return
	}
	promotion, err := h.svc.UpdatePromotion(c.Request.Context(), middleware.GetUpstreamToken(c), c.Param("id"), input)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, promotion)
}

// DeletePromotion handles DELETE /admin/promotions/:id
func (h *DirectoryHandler) DeletePromotion(c *gin.Context) {
	if err := h.svc.DeletePromotion(c.Request.Context(), middleware.GetUpstreamToken(c), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// ListGiftCards handles GET /admin/gift-cards
func (h *DirectoryHandler) ListGiftCards(c *gin.Context) {
	req, ok := h.bindListRequest(c)
	if !ok {
		return
	}
	cards, pagination, err := h.svc.ListGiftCards(c.Request.Context(), middleware.GetUpstreamToken(c), req.Page, req.Limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessWithPagination(c, cards, pagination)
}

// CreateGiftCard handles POST /admin/gift-cards
func (h *DirectoryHandler) CreateGiftCard(c *gin.Context) {
	var input upstream.GiftCardInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "invalid gift card payload")
		return
	}
	card, err := h.svc.CreateGiftCard(c.Request.Context(), middleware.GetUpstreamToken(c), input)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, card)
}

// UpdateGiftCard handles PUT /admin/gift-cards/:id
func (h *DirectoryHandler) UpdateGiftCard(c *gin.Context) {
	var input upstream.GiftCardInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "invalid gift card payload")
		return
	}
	card, err := h.svc.UpdateGiftCard(c.Request.Context(), middleware.GetUpstreamToken(c), c.Param("id"), input)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, card)
}

// DeleteGiftCard handles DELETE /admin/gift-cards/:id
func (h *DirectoryHandler) DeleteGiftCard(c *gin.Context) {
	if err := h.svc.DeleteGiftCard(c.Request.Context(), middleware.GetUpstreamToken(c), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// ListCustomers handles GET /admin/customers
func (h *DirectoryHandler) ListCustomers(c *gin.Context) {
	req, ok := h.bindListRequest(c)
	if !ok {
		return
	}
	customers, pagination, err := h.svc.ListCustomers(c.Request.Context(), middleware.GetUpstreamToken(c), req.Page, req.Limit, req.Search)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessWithPagination(c, customers, pagination)
}

// GetCustomer handles GET /admin/customers/:id
func (h *DirectoryHandler) GetCustomer(c *gin.Context) {
	customer, err := h.svc.GetCustomer(c.Request.Context(), middleware.GetUpstreamToken(c), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, customer)
}

// DeleteCustomer handles DELETE /admin/customers/:id
func (h *DirectoryHandler) DeleteCustomer(c *gin.Context) {
	if err := h.svc.DeleteCustomer(c.Request.Context(), middleware.GetUpstreamToken(c), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
