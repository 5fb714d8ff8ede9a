package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"syncmonitor/internal/auth"
	"syncmonitor/internal/service"
)

// TriggerHandler is the on-demand sync entry point the dashboard calls. The
// response body is always {success, message, details}: 200 for handled
// outcomes, 400 for caught downstream errors, 401/404 for auth and lookup
// failures.
type TriggerHandler struct {
	Trigger *service.ManualSyncTrigger
}

type triggerRequest struct {
	IntegrationID string `json:"integration_id"`
}

func (h *TriggerHandler) Register(r *gin.Engine) {
	r.POST("/api/v1/sync/trigger", h.trigger)
}

// @Summary Trigger an immediate sync for one integration
// @Tags sync
// @Accept json
// @Param request body triggerRequest true "target integration"
// @Success 200 {object} service.TriggerResult
// @Failure 400 {object} service.TriggerResult
// @Failure 401 {object} service.TriggerResult
// @Failure 404 {object} service.TriggerResult
// @Router /api/v1/sync/trigger [post]
func (h *TriggerHandler) trigger(c *gin.Context) {
	if h.Trigger == nil {
		c.JSON(http.StatusServiceUnavailable, service.TriggerResult{
			Message: "sync trigger unavailable",
		})
		return
	}

	var req triggerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, service.TriggerResult{
			Message: "invalid request body: " + err.Error(),
		})
		return
	}
	if strings.TrimSpace(req.IntegrationID) == "" {
		c.JSON(http.StatusBadRequest, service.TriggerResult{
			Message: "integration_id is required",
		})
		return
	}

	ident, ok := auth.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, service.TriggerResult{
			Message: "unauthorized",
		})
		return
	}

	result, err := h.Trigger.Trigger(c.Request.Context(), ident, req.IntegrationID)
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, result)
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, result)
	case err != nil:
		c.JSON(http.StatusBadRequest, result)
	default:
		c.JSON(http.StatusOK, result)
	}
}
