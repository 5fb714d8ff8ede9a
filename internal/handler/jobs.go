package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"syncmonitor/internal/service"
)

// JobsHandler is the HTTP invocation path for the two periodic jobs, so an
// external scheduler can drive them instead of (or alongside) the in-process
// cron. No request body is required.
type JobsHandler struct {
	Fallback *service.FallbackController
	Health   *service.HealthUpdater
}

func (h *JobsHandler) Register(r *gin.Engine) {
	g := r.Group("/api/v1/jobs")
	g.POST("/fallback", h.runFallback)
	g.POST("/health", h.runHealthUpdate)
}

// @Summary Run one fallback controller pass
// @Tags jobs
// @Success 200 {object} apiResponse
// @Router /api/v1/jobs/fallback [post]
func (h *JobsHandler) runFallback(c *gin.Context) {
	if h.Fallback == nil {
		Error(c, http.StatusServiceUnavailable, "fallback controller unavailable", nil)
		return
	}
	result, err := h.Fallback.RunOnce(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, result, nil)
}

// @Summary Run one health updater pass
// @Tags jobs
// @Success 200 {object} apiResponse
// @Router /api/v1/jobs/health [post]
func (h *JobsHandler) runHealthUpdate(c *gin.Context) {
	if h.Health == nil {
		Error(c, http.StatusServiceUnavailable, "health updater unavailable", nil)
		return
	}
	processed, err := h.Health.RunOnce(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"processed": processed}, nil)
}
