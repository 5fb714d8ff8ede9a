package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterDocs(r *gin.Engine) {
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/markdown; charset=utf-8")
		c.String(http.StatusOK, `# Sync Monitor

Integration sync health for telephony and calendar providers.

## Auth

All /api/* routes require a Bearer token. Health endpoints are public.

## Routes

- GET  /healthz
- GET  /readyz
- GET  /api/v1/sync/status
- GET  /api/v1/sync/status/{integration_id}
- GET  /api/v1/sync/jobs
- POST /api/v1/sync/trigger            {"integration_id": "..."}
- POST /api/v1/jobs/fallback
- POST /api/v1/jobs/health
- POST /api/v1/integrations/{integration_id}/webhook-events
- POST /api/v1/integrations/{integration_id}/poll-events

## Health model

Each integration carries a webhook and a polling channel. Channels are
classified healthy/degraded/failing from the age of their last event;
the pair maps onto an overall health and a 0-100 confidence score shown
on the dashboard. A silent webhook demotes the integration to aggressive
polling until events flow again.
`)
	})
}
