package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"syncmonitor/internal/repository"
)

// SyncStatusHandler is the dashboard read surface: per-integration health,
// confidence and sync method.
type SyncStatusHandler struct {
	Repo repository.Repository
}

func (h *SyncStatusHandler) Register(r *gin.Engine) {
	g := r.Group("/api/v1/sync/status")
	g.GET("", h.list)
	g.GET("/:integration_id", h.get)
}

// @Summary List sync status rows
// @Tags sync
// @Param limit query int false "page size"
// @Param offset query int false "page offset"
// @Param overall_health query string false "healthy|warning|error"
// @Param sync_method query string false "webhook|polling|hybrid"
// @Success 200 {object} apiResponse
// @Router /api/v1/sync/status [get]
func (h *SyncStatusHandler) list(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	params := repository.ListSyncStatusesParams{
		Limit:         limit,
		Offset:        offset,
		OverallHealth: stringQuery(c, "overall_health"),
		SyncMethod:    stringQuery(c, "sync_method"),
		OrderBy:       "updated_at",
		Asc:           boolPtr(false),
	}
	items, err := h.Repo.ListSyncStatuses(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountSyncStatuses(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

// @Summary Get one integration's sync status
// @Tags sync
// @Param integration_id path string true "integration id"
// @Success 200 {object} apiResponse
// @Router /api/v1/sync/status/{integration_id} [get]
func (h *SyncStatusHandler) get(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	id := strings.TrimSpace(c.Param("integration_id"))
	if id == "" {
		Error(c, http.StatusBadRequest, "invalid integration_id", nil)
		return
	}
	item, err := h.Repo.GetSyncStatus(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "sync status not found", nil)
		return
	}
	Ok(c, item, nil)
}
