package repository

import (
	"context"
	"time"

	"syncmonitor/internal/models"
)

// SyncHealthUpdate is the field set the periodic health updater writes back
// to a status row in one pass.
type SyncHealthUpdate struct {
	WebhookHealth string
	PollingHealth string
	OverallHealth string
	Confidence    int
	UpdatedAt     time.Time
}

// FallbackUpdate is the field set the fallback controller writes when it
// demotes or restores an integration's ingestion strategy.
type FallbackUpdate struct {
	WebhookHealth string
	SyncMethod    string
	OverallHealth string
	Confidence    int
	UpdatedAt     time.Time
}

type ListSyncStatusesParams struct {
	Limit         int
	Offset        int
	OverallHealth *string
	SyncMethod    *string
	OrderBy       string
	Asc           *bool
}

type ListSyncJobsParams struct {
	Limit         int
	Offset        int
	IntegrationID *string
	Status        *string
	JobType       *string
	OrderBy       string
	Asc           *bool
}

type Repository interface {
	// Integrations. Rows are owned by the rest of the application; this
	// service only reads them and adjusts polling cadence and last_sync_at.
	GetIntegrationByID(ctx context.Context, id string) (*models.Integration, error)
	ListIntegrationsByIDs(ctx context.Context, ids []string) ([]models.Integration, error)
	ListIntegrationIDsWithoutStatus(ctx context.Context) ([]string, error)
	UpdateIntegrationPolling(ctx context.Context, id string, intervalMinutes int, enabled *bool) error
	StampIntegrationLastSync(ctx context.Context, id string, at time.Time) error

	// Sync status rows.
	GetSyncStatus(ctx context.Context, integrationID string) (*models.SyncStatus, error)
	ListSyncStatuses(ctx context.Context, params ListSyncStatusesParams) ([]models.SyncStatus, error)
	CountSyncStatuses(ctx context.Context, params ListSyncStatusesParams) (int64, error)
	ListAllSyncStatuses(ctx context.Context) ([]models.SyncStatus, error)
	ListWebhookEnabledSyncStatuses(ctx context.Context) ([]models.SyncStatus, error)
	UpsertSyncStatus(ctx context.Context, item *models.SyncStatus) error
	UpdateSyncStatusHealth(ctx context.Context, integrationID string, update SyncHealthUpdate) error
	UpdateSyncStatusFallback(ctx context.Context, integrationID string, update FallbackUpdate) error
	MarkWebhookReceived(ctx context.Context, integrationID string, at time.Time) (int64, error)
	MarkPollSuccess(ctx context.Context, integrationID string, at time.Time) (int64, error)

	// Sync job queue.
	InsertSyncJob(ctx context.Context, item *models.SyncJob) error
	ListSyncJobs(ctx context.Context, params ListSyncJobsParams) ([]models.SyncJob, error)
	CountSyncJobs(ctx context.Context, params ListSyncJobsParams) (int64, error)
}
