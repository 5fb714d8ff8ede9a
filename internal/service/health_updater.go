package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"syncmonitor/internal/config"
	"syncmonitor/internal/health"
	"syncmonitor/internal/models"
	"syncmonitor/internal/repository"
)

// HealthUpdater recomputes and persists the health classification and
// confidence score of every tracked integration. Each run is one stateless
// pass over the store; a failure on one row is logged and skipped, never
// fatal for the batch.
type HealthUpdater struct {
	Repo   repository.Repository
	Logger *zap.Logger
	Config config.HealthConfig
}

// RunOnce refreshes all status rows and returns how many were updated.
func (u *HealthUpdater) RunOnce(ctx context.Context) (int, error) {
	if u == nil || u.Repo == nil {
		return 0, nil
	}
	u.ensureStatusRows(ctx)

	statuses, err := u.Repo.ListAllSyncStatuses(ctx)
	if err != nil {
		return 0, err
	}
	if len(statuses) == 0 {
		return 0, nil
	}

	// The parent integrations only feed log fields; classification depends
	// solely on the flags and timestamps already on the status row.
	providerByID := u.providerLookup(ctx, statuses)

	webhookBands := bandsFromConfig(u.Config.WebhookBands())
	pollingBands := bandsFromConfig(u.Config.PollingBands())

	now := time.Now().UTC()
	processed := 0
	for _, st := range statuses {
		webhookHealth := health.Classify(st.WebhookEnabled, st.LastWebhookReceivedAt, now, webhookBands)
		pollingHealth := health.Classify(st.PollingEnabled, st.LastSuccessfulPollAt, now, pollingBands)
		overall, confidence := health.Combine(webhookHealth, pollingHealth)

		err := u.Repo.UpdateSyncStatusHealth(ctx, st.IntegrationID, repository.SyncHealthUpdate{
			WebhookHealth: string(webhookHealth),
			PollingHealth: string(pollingHealth),
			OverallHealth: string(overall),
			Confidence:    confidence,
			UpdatedAt:     now,
		})
		if err != nil {
			u.logWarn("health update failed", err,
				zap.String("integration_id", st.IntegrationID),
				zap.String("provider", providerByID[st.IntegrationID]),
			)
			continue
		}
		processed++
	}

	if u.Logger != nil {
		u.Logger.Info("sync health refreshed",
			zap.Int("processed", processed),
			zap.Int("total", len(statuses)),
		)
	}
	return processed, nil
}

// ensureStatusRows backfills a default status row for integrations that were
// connected before any health pass ran, so they show up on the dashboard
// before the first webhook or poll arrives.
func (u *HealthUpdater) ensureStatusRows(ctx context.Context) {
	ids, err := u.Repo.ListIntegrationIDsWithoutStatus(ctx)
	if err != nil {
		u.logWarn("list integrations without status failed", err)
		return
	}
	if len(ids) == 0 {
		return
	}
	integrations, err := u.Repo.ListIntegrationsByIDs(ctx, ids)
	if err != nil {
		u.logWarn("load integrations for status bootstrap failed", err)
		return
	}
	now := time.Now().UTC()
	overall, confidence := health.Combine(health.StatusUnknown, health.StatusUnknown)
	for _, integ := range integrations {
		st := &models.SyncStatus{
			IntegrationID:            integ.ID,
			WebhookEnabled:           true,
			PollingEnabled:           integ.PollingEnabled,
			WebhookHealthStatus:      string(health.StatusUnknown),
			PollingHealthStatus:      string(health.StatusUnknown),
			OverallHealth:            string(overall),
			SyncConfidencePercentage: confidence,
			SyncMethod:               health.MethodWebhook,
			UpdatedAt:                now,
		}
		if err := u.Repo.UpsertSyncStatus(ctx, st); err != nil {
			u.logWarn("status bootstrap failed", err, zap.String("integration_id", integ.ID))
		}
	}
}

func (u *HealthUpdater) providerLookup(ctx context.Context, statuses []models.SyncStatus) map[string]string {
	ids := make([]string, 0, len(statuses))
	for _, st := range statuses {
		ids = append(ids, st.IntegrationID)
	}
	out := map[string]string{}
	integrations, err := u.Repo.ListIntegrationsByIDs(ctx, ids)
	if err != nil {
		u.logWarn("load integrations for diagnostics failed", err)
		return out
	}
	for _, integ := range integrations {
		out[integ.ID] = integ.Provider
	}
	return out
}

func bandsFromConfig(healthy, degraded time.Duration) health.Bands {
	return health.Bands{HealthyWithin: healthy, DegradedWithin: degraded}
}

func (u *HealthUpdater) logWarn(msg string, err error, fields ...zap.Field) {
	if u == nil || u.Logger == nil {
		return
	}
	u.Logger.Warn(msg, append(fields, zap.Error(err))...)
}
