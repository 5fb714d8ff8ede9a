package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"syncmonitor/internal/repository"
)

// SyncJobHandler exposes the queue for dashboard visibility; workers consume
// the rows elsewhere.
type SyncJobHandler struct {
	Repo repository.Repository
}

func (h *SyncJobHandler) Register(r *gin.Engine) {
	r.GET("/api/v1/sync/jobs", h.list)
}

// @Summary List queued sync jobs
// @Tags sync
// @Param limit query int false "page size"
// @Param offset query int false "page offset"
// @Param integration_id query string false "filter by integration"
// @Param status query string false "filter by job status"
// @Param job_type query string false "filter by job type"
// @Success 200 {object} apiResponse
// @Router /api/v1/sync/jobs [get]
func (h *SyncJobHandler) list(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	params := repository.ListSyncJobsParams{
		Limit:         limit,
		Offset:        offset,
		IntegrationID: stringQuery(c, "integration_id"),
		Status:        stringQuery(c, "status"),
		JobType:       stringQuery(c, "job_type"),
		OrderBy:       "created_at",
		Asc:           boolPtr(false),
	}
	items, err := h.Repo.ListSyncJobs(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountSyncJobs(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}
