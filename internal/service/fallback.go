package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"syncmonitor/internal/config"
	"syncmonitor/internal/health"
	"syncmonitor/internal/repository"
)

// FallbackController watches webhook delivery per integration and switches
// the ingestion strategy: an integration whose webhooks have gone silent is
// demoted to aggressive polling, and restored to the hybrid webhook path
// once events flow again. Records between the two thresholds are left alone
// so borderline timing cannot make the state oscillate.
type FallbackController struct {
	Repo   repository.Repository
	Logger *zap.Logger
	Config config.FallbackConfig
}

// FallbackResult summarizes one controller pass.
type FallbackResult struct {
	Checked  int `json:"checked"`
	Demoted  int `json:"demoted"`
	Restored int `json:"restored"`
	Failed   int `json:"failed"`
}

func (c *FallbackController) RunOnce(ctx context.Context) (FallbackResult, error) {
	var result FallbackResult
	if c == nil || c.Repo == nil {
		return result, nil
	}
	staleAfter := c.Config.StaleAfter
	if staleAfter <= 0 {
		staleAfter = 30 * time.Minute
	}
	recoverWithin := c.Config.RecoverWithin
	if recoverWithin <= 0 {
		recoverWithin = 10 * time.Minute
	}
	aggressiveInterval := c.Config.AggressivePollIntervalMinutes
	if aggressiveInterval <= 0 {
		aggressiveInterval = 5
	}
	defaultInterval := c.Config.DefaultPollIntervalMinutes
	if defaultInterval <= 0 {
		defaultInterval = 15
	}

	statuses, err := c.Repo.ListWebhookEnabledSyncStatuses(ctx)
	if err != nil {
		return result, err
	}

	now := time.Now().UTC()
	for _, st := range statuses {
		result.Checked++

		// A never-seen webhook counts as infinitely stale.
		stale := st.LastWebhookReceivedAt == nil || st.LastWebhookReceivedAt.IsZero() ||
			now.Sub(*st.LastWebhookReceivedAt) > staleAfter
		fresh := st.LastWebhookReceivedAt != nil && !st.LastWebhookReceivedAt.IsZero() &&
			now.Sub(*st.LastWebhookReceivedAt) < recoverWithin
		failing := st.WebhookHealthStatus == string(health.StatusFailing)

		switch {
		case stale && !failing:
			// Demote once per failure episode; the failing guard keeps
			// repeat passes from rewriting the same state.
			enabled := true
			if err := c.Repo.UpdateIntegrationPolling(ctx, st.IntegrationID, aggressiveInterval, &enabled); err != nil {
				// Skip the status write to keep the pair consistent.
				c.logWarn("fallback: integration demotion write failed", err, st.IntegrationID)
				result.Failed++
				continue
			}
			err := c.Repo.UpdateSyncStatusFallback(ctx, st.IntegrationID, repository.FallbackUpdate{
				WebhookHealth: string(health.StatusFailing),
				SyncMethod:    health.MethodPolling,
				OverallHealth: string(health.OverallWarning),
				Confidence:    70,
				UpdatedAt:     now,
			})
			if err != nil {
				c.logWarn("fallback: status demotion write failed", err, st.IntegrationID)
				result.Failed++
				continue
			}
			result.Demoted++
			if c.Logger != nil {
				c.Logger.Info("webhook stale, demoted to aggressive polling",
					zap.String("integration_id", st.IntegrationID),
					zap.Int("poll_interval_minutes", aggressiveInterval),
				)
			}

		case fresh && failing:
			if err := c.Repo.UpdateIntegrationPolling(ctx, st.IntegrationID, defaultInterval, nil); err != nil {
				c.logWarn("fallback: integration restore write failed", err, st.IntegrationID)
				result.Failed++
				continue
			}
			err := c.Repo.UpdateSyncStatusFallback(ctx, st.IntegrationID, repository.FallbackUpdate{
				WebhookHealth: string(health.StatusHealthy),
				SyncMethod:    health.MethodHybrid,
				OverallHealth: string(health.OverallHealthy),
				Confidence:    100,
				UpdatedAt:     now,
			})
			if err != nil {
				c.logWarn("fallback: status restore write failed", err, st.IntegrationID)
				result.Failed++
				continue
			}
			result.Restored++
			if c.Logger != nil {
				c.Logger.Info("webhook recovered, restored hybrid ingestion",
					zap.String("integration_id", st.IntegrationID),
					zap.Int("poll_interval_minutes", defaultInterval),
				)
			}
		}
		// Anything else sits in the hysteresis band or already matches its
		// state; no writes this cycle.
	}

	return result, nil
}

func (c *FallbackController) logWarn(msg string, err error, integrationID string) {
	if c == nil || c.Logger == nil {
		return
	}
	c.Logger.Warn(msg, zap.String("integration_id", integrationID), zap.Error(err))
}
