package handler

import (
	"github.com/gin-gonic/gin"

	appanalytics "github.com/shopfront/gateway/internal/application/analytics"
	"github.com/shopfront/gateway/internal/interfaces/http/middleware"
)

// AnalyticsHandler accepts tracking beacons from the storefront
type AnalyticsHandler struct {
	BaseHandler
	svc *appanalytics.Service
}

// NewAnalyticsHandler creates the analytics handler
func NewAnalyticsHandler(svc *appanalytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// Track handles POST /store/analytics/events. The beacon is accepted
// as soon as it is spooled; delivery to the platform happens in the
// background.
func (h *AnalyticsHandler) Track(c *gin.Context) {
	var event appanalytics.Event
	if err := c.ShouldBindJSON(&event); err != nil {
		h.BadRequest(c, "name is required")
		return
	}

	if event.SessionID == "" {
		if principal := middleware.GetPrincipal(c); principal != nil {
			event.SessionID = principal.SessionID
		}
	}
	if event.VisitorID == "" {
		if id, err := c.Cookie(VisitorCookieName); err == nil {
			event.VisitorID = id
		}
	}

	if err := h.svc.Track(c.Request.Context(), event); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, gin.H{"accepted": true})
}
