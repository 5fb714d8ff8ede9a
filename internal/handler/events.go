package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"syncmonitor/internal/repository"
)

// EventsHandler stamps ingestion activity on a status row: webhook receipts
// from the provider gateways and successful polls from the external pollers.
// These timestamps are the inputs everything else classifies from.
type EventsHandler struct {
	Repo repository.Repository
}

func (h *EventsHandler) Register(r *gin.Engine) {
	g := r.Group("/api/v1/integrations/:integration_id")
	g.POST("/webhook-events", h.webhookReceived)
	g.POST("/poll-events", h.pollSucceeded)
}

// @Summary Record a webhook receipt for an integration
// @Tags events
// @Param integration_id path string true "integration id"
// @Success 200 {object} apiResponse
// @Router /api/v1/integrations/{integration_id}/webhook-events [post]
func (h *EventsHandler) webhookReceived(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	h.stamp(c, h.Repo.MarkWebhookReceived)
}

// @Summary Record a successful poll for an integration
// @Tags events
// @Param integration_id path string true "integration id"
// @Success 200 {object} apiResponse
// @Router /api/v1/integrations/{integration_id}/poll-events [post]
func (h *EventsHandler) pollSucceeded(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	h.stamp(c, h.Repo.MarkPollSuccess)
}

func (h *EventsHandler) stamp(c *gin.Context, mark func(ctx context.Context, id string, at time.Time) (int64, error)) {
	id := strings.TrimSpace(c.Param("integration_id"))
	if id == "" {
		Error(c, http.StatusBadRequest, "invalid integration_id", nil)
		return
	}
	rows, err := mark(c.Request.Context(), id, time.Now().UTC())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if rows == 0 {
		Error(c, http.StatusNotFound, "sync status not found", nil)
		return
	}
	Ok(c, gin.H{"integration_id": id}, nil)
}
