package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	appordering "github.com/shopfront/gateway/internal/application/ordering"
	"github.com/shopfront/gateway/internal/domain/ordering"
	"github.com/shopfront/gateway/internal/infrastructure/upstream"
	"github.com/shopfront/gateway/internal/interfaces/http/middleware"
)

// OrderHandler serves the back-office order endpoints
type OrderHandler struct {
	BaseHandler
	svc *appordering.Service
}

// NewOrderHandler creates the order handler
func NewOrderHandler(svc *appordering.Service) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// orderView decorates an order with the localized status label
type orderView struct {
	ordering.Order
	StatusLabel string `json:"status_label"`
}

func newOrderView(order ordering.Order, acceptLanguage string) orderView {
	return orderView{
		Order:       order,
		StatusLabel: order.Status.Label(acceptLanguage),
	}
}

func newOrderViews(orders []ordering.Order, acceptLanguage string) []orderView {
	views := make([]orderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, newOrderView(order, acceptLanguage))
	}
	return views
}

type orderListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Status   string `form:"status" binding:"omitempty,order_status"`
	Search   string `form:"search"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
}

// List handles GET /admin/orders
func (h *OrderHandler) List(c *gin.Context) {
	var req orderListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "invalid listing parameters")
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.Limit == 0 {
		req.Limit = 25
	}

	query := upstream.OrderListQuery{
		Page:   req.Page,
		Limit:  req.Limit,
		Status: ordering.Status(req.Status),
		Search: req.Search,
	}
	if req.DateFrom != "" {
		from, err := time.Parse(time.RFC3339, req.DateFrom)
		if err != nil {
			h.BadRequest(c, "date_from must be RFC 3339")
			return
		}
		query.DateFrom = &from
	}
	if req.DateTo != "" {
		to, err := time.Parse(time.RFC3339, req.DateTo)
		if err != nil {
			h.BadRequest(c, "date_to must be RFC 3339")
			return
		}
		query.DateTo = &to
	}

	orders, pagination, err := h.svc.List(c.Request.Context(), middleware.GetUpstreamToken(c), query)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessWithPagination(c, newOrderViews(orders, c.GetHeader("Accept-Language")), pagination)
}

// Get handles GET /admin/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.svc.Get(c.Request.Context(), middleware.GetUpstreamToken(c), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, newOrderView(*order, c.GetHeader("Accept-Language")))
}

type changeStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// ChangeStatus handles PATCH /admin/orders/:id/status
func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "status is required")
		return
	}

	order, err := h.svc.ChangeStatus(c.Request.Context(), middleware.GetUpstreamToken(c), c.Param("id"), ordering.Status(req.Status), req.Note)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, newOrderView(*order, c.GetHeader("Accept-Language")))
}

type cancelRequest struct {
	Reason string `json:"reason" binding:"required"`
	Kind   string `json:"kind"`
}

// Cancel handles POST /admin/orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "reason is required")
		return
	}

	order, err := h.svc.Cancel(c.Request.Context(), middleware.GetUpstreamToken(c), c.Param("id"), req.Reason, ordering.RequestKind(req.Kind))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, newOrderView(*order, c.GetHeader("Accept-Language")))
}

type resolveCancellationRequest struct {
	Resolution   string  `json:"resolution" binding:"required"`
	Note         string  `json:"note"`
	RefundAmount *string `json:"refund_amount"`
}

// ResolveCancellation handles POST /admin/orders/:id/cancellation
func (h *OrderHandler) ResolveCancellation(c *gin.Context) {
	var req resolveCancellationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "resolution is required")
		return
	}

	var refund *decimal.Decimal
	if req.RefundAmount != nil && *req.RefundAmount != "" {
		amount, err := decimal.NewFromString(*req.RefundAmount)
		if err != nil {
			h.BadRequest(c, "refund_amount must be a decimal number")
			return
		}
		refund = &amount
	}

	order, err := h.svc.ResolveCancellation(c.Request.Context(), middleware.GetUpstreamToken(c), c.Param("id"),
		ordering.Resolution(req.Resolution), req.Note, refund)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, newOrderView(*order, c.GetHeader("Accept-Language")))
}

type addNoteRequest struct {
	Note string `json:"note" binding:"required"`
}

// AddNote handles POST /admin/orders/:id/notes
func (h *OrderHandler) AddNote(c *gin.Context) {
	var req addNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "note is required")
		return
	}

	order, err := h.svc.AddNote(c.Request.Context(), middleware.GetUpstreamToken(c), c.Param("id"), req.Note)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, newOrderView(*order, c.GetHeader("Accept-Language")))
}

type documentRequest struct {
	Kind string `json:"kind" binding:"required"`
}

type documentResponse struct {
	Document ordering.Document `json:"document"`
	Order    orderView         `json:"order"`
}

// GenerateDocument handles POST /admin/orders/:id/documents
func (h *OrderHandler) GenerateDocument(c *gin.Context) {
	var req documentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "kind is required")
		return
	}

	doc, order, err := h.svc.GenerateDocument(c.Request.Context(), middleware.GetUpstreamToken(c), c.Param("id"), ordering.DocumentKind(req.Kind))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, documentResponse{
		Document: *doc,
		Order:    newOrderView(*order, c.GetHeader("Accept-Language")),
	})
}

type emailRequest struct {
	Kind string `json:"kind" binding:"required"`
}

// SendEmail handles POST /admin/orders/:id/emails
func (h *OrderHandler) SendEmail(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "kind is required")
		return
	}

	order, err := h.svc.SendEmail(c.Request.Context(), middleware.GetUpstreamToken(c), c.Param("id"), ordering.EmailKind(req.Kind))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, newOrderView(*order, c.GetHeader("Accept-Language")))
}
