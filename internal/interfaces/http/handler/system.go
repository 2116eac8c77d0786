package handler

import (
	"time"

	"github.com/gin-gonic/gin"
)

// SystemHandler serves the health endpoints
type SystemHandler struct {
	BaseHandler
	version   string
	startedAt time.Time
}

// NewSystemHandler creates the system handler
func NewSystemHandler(version string) *SystemHandler {
	return &SystemHandler{version: version, startedAt: time.Now()}
}

// Health handles GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	h.Success(c, gin.H{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
	})
}
