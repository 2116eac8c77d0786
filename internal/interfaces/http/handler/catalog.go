package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appcatalog "github.com/shopfront/gateway/internal/application/catalog"
)

// VisitorCookieName identifies the anonymous browsing session that scopes
// a catalog browser. The cookie is set on first contact and carries no
// authentication weight.
const VisitorCookieName = "gateway_visitor"

const visitorCookieMaxAge = 180 * 24 * 60 * 60

// CatalogHandler serves the public storefront catalog endpoints
type CatalogHandler struct {
	BaseHandler
	svc          *appcatalog.Service
	secureCookie bool
}

// NewCatalogHandler creates the catalog handler
func NewCatalogHandler(svc *appcatalog.Service, secureCookie bool) *CatalogHandler {
	return &CatalogHandler{svc: svc, secureCookie: secureCookie}
}

// visitorID returns the caller's browsing identity, minting a fresh one
// when none is presented
func (h *CatalogHandler) visitorID(c *gin.Context) string {
	if id, err := c.Cookie(VisitorCookieName); err == nil && id != "" {
		return id
	}
	if id := c.GetHeader("X-Visitor-ID"); id != "" {
		return id
	}
	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(VisitorCookieName, id, visitorCookieMaxAge, "/", "", h.secureCookie, true)
	return id
}

// Listing handles GET /store/products and returns the current listing
// view, refreshing it when the browser holds no results yet
func (h *CatalogHandler) Listing(c *gin.Context) {
	browser := h.svc.Browser(h.visitorID(c))
	view := browser.View()
	if view.Total == 0 && len(view.Products) == 0 {
		refreshed, err := browser.Refresh(c.Request.Context())
		if err != nil {
			h.Error(c, err)
			return
		}
		view = refreshed
	}
	h.Success(c, view)
}

type searchRequest struct {
	Query string `json:"query"`
}

// Search handles POST /store/products/search
func (h *CatalogHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid search payload")
		return
	}

	view, err := h.svc.Browser(h.visitorID(c)).Search(c.Request.Context(), req.Query)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, view)
}

type categoryRequest struct {
	Slug string `json:"slug"`
}

// SetCategory handles POST /store/products/category
func (h *CatalogHandler) SetCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid category payload")
		return
	}

	view, err := h.svc.Browser(h.visitorID(c)).SetCategory(c.Request.Context(), req.Slug)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, view)
}

type sortRequest struct {
	Sort string `json:"sort" binding:"required"`
}

// SetSort handles POST /store/products/sort
func (h *CatalogHandler) SetSort(c *gin.Context) {
	var req sortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "sort is required")
		return
	}

	view, err := h.svc.Browser(h.visitorID(c)).SetSort(c.Request.Context(), req.Sort)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, view)
}

type priceRangeRequest struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// SetPriceRange handles POST /store/products/price-range
func (h *CatalogHandler) SetPriceRange(c *gin.Context) {
	var req priceRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid price range payload")
		return
	}

	view, err := h.svc.Browser(h.visitorID(c)).SetPriceRange(c.Request.Context(), req.Min, req.Max)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, view)
}

type specificationRequest struct {
	Key      string `json:"key" binding:"required"`
	Value    string `json:"value" binding:"required"`
	Selected bool   `json:"selected"`
}

// ToggleSpecification handles POST /store/products/specifications
func (h *CatalogHandler) ToggleSpecification(c *gin.Context) {
	var req specificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "key and value are required")
		return
	}

	view, err := h.svc.Browser(h.visitorID(c)).ToggleSpecification(c.Request.Context(), req.Key, req.Value, req.Selected)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, view)
}

// ClearFilters handles DELETE /store/products/filters
func (h *CatalogHandler) ClearFilters(c *gin.Context) {
	view, err := h.svc.Browser(h.visitorID(c)).ClearFilters(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, view)
}

// LoadMore handles POST /store/products/more
func (h *CatalogHandler) LoadMore(c *gin.Context) {
	view, err := h.svc.Browser(h.visitorID(c)).LoadMore(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, view)
}

// GetProduct handles GET /store/products/:slug
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.svc.GetProduct(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, product)
}

// ListCategories handles GET /store/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, categories)
}
