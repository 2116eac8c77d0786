package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	appreport "github.com/shopfront/gateway/internal/application/report"
	"github.com/shopfront/gateway/internal/infrastructure/upstream"
	"github.com/shopfront/gateway/internal/interfaces/http/middleware"
)

// ReportHandler serves the back-office reporting endpoints
type ReportHandler struct {
	BaseHandler
	svc *appreport.Service
}

// NewReportHandler creates the report handler
func NewReportHandler(svc *appreport.Service) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// Dashboard handles GET /admin/reports/dashboard
func (h *ReportHandler) Dashboard(c *gin.Context) {
	stats, err := h.svc.Dashboard(c.Request.Context(), middleware.GetUpstreamToken(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, stats)
}

type exportRequest struct {
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
	Status   string `form:"status"`
}

// ExportOrders handles GET /admin/reports/orders/export and streams the
// result as a CSV attachment
func (h *ReportHandler) ExportOrders(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "invalid export parameters")
		return
	}

	query := upstream.ReportQuery{Status: req.Status}
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

	csv, err := h.svc.ExportOrdersCSV(c.Request.Context(), middleware.GetUpstreamToken(c), query)
	if err != nil {
		h.Error(c, err)
		return
	}

	filename := fmt.Sprintf("orders-%s.csv", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}
