package service

import (
	"context"
	"fmt"
	"time"

	"syncmonitor/internal/models"
	"syncmonitor/internal/repository"
)

// stubRepo is an in-memory repository.Repository for the service tests. Per
// method failure injection lets a test fail one row or one call without
// faking a database.
type stubRepo struct {
	integrations map[string]*models.Integration
	statuses     map[string]*models.SyncStatus
	jobs         []models.SyncJob

	failHealthUpdateFor   map[string]bool
	failPollingUpdateFor  map[string]bool
	failFallbackUpdateFor map[string]bool
	failJobInsert         bool
	failStamp             bool

	healthUpdates   map[string]repository.SyncHealthUpdate
	fallbackUpdates map[string]repository.FallbackUpdate
	pollingUpdates  map[string]pollingUpdate
	stamped         []string
}

type pollingUpdate struct {
	intervalMinutes int
	enabled         *bool
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		integrations:          map[string]*models.Integration{},
		statuses:              map[string]*models.SyncStatus{},
		failHealthUpdateFor:   map[string]bool{},
		failPollingUpdateFor:  map[string]bool{},
		failFallbackUpdateFor: map[string]bool{},
		healthUpdates:         map[string]repository.SyncHealthUpdate{},
		fallbackUpdates:       map[string]repository.FallbackUpdate{},
		pollingUpdates:        map[string]pollingUpdate{},
	}
}

func (r *stubRepo) addIntegration(integ models.Integration) {
	cp := integ
	r.integrations[integ.ID] = &cp
}

func (r *stubRepo) addStatus(st models.SyncStatus) {
	cp := st
	r.statuses[st.IntegrationID] = &cp
}

func (r *stubRepo) GetIntegrationByID(_ context.Context, id string) (*models.Integration, error) {
	integ, ok := r.integrations[id]
	if !ok {
		return nil, nil
	}
	cp := *integ
	return &cp, nil
}

func (r *stubRepo) ListIntegrationsByIDs(_ context.Context, ids []string) ([]models.Integration, error) {
	var out []models.Integration
	for _, id := range ids {
		if integ, ok := r.integrations[id]; ok {
			out = append(out, *integ)
		}
	}
	return out, nil
}

func (r *stubRepo) ListIntegrationIDsWithoutStatus(_ context.Context) ([]string, error) {
	var out []string
	for id := range r.integrations {
		if _, ok := r.statuses[id]; !ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *stubRepo) UpdateIntegrationPolling(_ context.Context, id string, intervalMinutes int, enabled *bool) error {
	if r.failPollingUpdateFor[id] {
		return fmt.Errorf("stub: polling update refused for %s", id)
	}
	integ, ok := r.integrations[id]
	if !ok {
		return fmt.Errorf("stub: integration %s not found", id)
	}
	integ.PollingIntervalMinutes = intervalMinutes
	if enabled != nil {
		integ.PollingEnabled = *enabled
	}
	r.pollingUpdates[id] = pollingUpdate{intervalMinutes: intervalMinutes, enabled: enabled}
	return nil
}

func (r *stubRepo) StampIntegrationLastSync(_ context.Context, id string, at time.Time) error {
	if r.failStamp {
		return fmt.Errorf("stub: stamp refused for %s", id)
	}
	if integ, ok := r.integrations[id]; ok {
		t := at
		integ.LastSyncAt = &t
	}
	r.stamped = append(r.stamped, id)
	return nil
}

func (r *stubRepo) GetSyncStatus(_ context.Context, integrationID string) (*models.SyncStatus, error) {
	st, ok := r.statuses[integrationID]
	if !ok {
		return nil, nil
	}
	cp := *st
	return &cp, nil
}

func (r *stubRepo) ListSyncStatuses(_ context.Context, _ repository.ListSyncStatusesParams) ([]models.SyncStatus, error) {
	return r.allStatuses(), nil
}

func (r *stubRepo) CountSyncStatuses(_ context.Context, _ repository.ListSyncStatusesParams) (int64, error) {
	return int64(len(r.statuses)), nil
}

func (r *stubRepo) ListAllSyncStatuses(_ context.Context) ([]models.SyncStatus, error) {
	return r.allStatuses(), nil
}

func (r *stubRepo) ListWebhookEnabledSyncStatuses(_ context.Context) ([]models.SyncStatus, error) {
	var out []models.SyncStatus
	for _, st := range r.allStatuses() {
		if st.WebhookEnabled {
			out = append(out, st)
		}
	}
	return out, nil
}

func (r *stubRepo) UpsertSyncStatus(_ context.Context, item *models.SyncStatus) error {
	cp := *item
	r.statuses[item.IntegrationID] = &cp
	return nil
}

func (r *stubRepo) UpdateSyncStatusHealth(_ context.Context, integrationID string, update repository.SyncHealthUpdate) error {
	if r.failHealthUpdateFor[integrationID] {
		return fmt.Errorf("stub: health update refused for %s", integrationID)
	}
	st, ok := r.statuses[integrationID]
	if !ok {
		return fmt.Errorf("stub: status %s not found", integrationID)
	}
	st.WebhookHealthStatus = update.WebhookHealth
	st.PollingHealthStatus = update.PollingHealth
	st.OverallHealth = update.OverallHealth
	st.SyncConfidencePercentage = update.Confidence
	st.UpdatedAt = update.UpdatedAt
	r.healthUpdates[integrationID] = update
	return nil
}

func (r *stubRepo) UpdateSyncStatusFallback(_ context.Context, integrationID string, update repository.FallbackUpdate) error {
	if r.failFallbackUpdateFor[integrationID] {
		return fmt.Errorf("stub: fallback update refused for %s", integrationID)
	}
	st, ok := r.statuses[integrationID]
	if !ok {
		return fmt.Errorf("stub: status %s not found", integrationID)
	}
	st.WebhookHealthStatus = update.WebhookHealth
	st.SyncMethod = update.SyncMethod
	st.OverallHealth = update.OverallHealth
	st.SyncConfidencePercentage = update.Confidence
	st.UpdatedAt = update.UpdatedAt
	r.fallbackUpdates[integrationID] = update
	return nil
}

func (r *stubRepo) MarkWebhookReceived(_ context.Context, integrationID string, at time.Time) (int64, error) {
	st, ok := r.statuses[integrationID]
	if !ok {
		return 0, nil
	}
	t := at
	st.LastWebhookReceivedAt = &t
	return 1, nil
}

func (r *stubRepo) MarkPollSuccess(_ context.Context, integrationID string, at time.Time) (int64, error) {
	st, ok := r.statuses[integrationID]
	if !ok {
		return 0, nil
	}
	t := at
	st.LastSuccessfulPollAt = &t
	return 1, nil
}

func (r *stubRepo) InsertSyncJob(_ context.Context, item *models.SyncJob) error {
	if r.failJobInsert {
		return fmt.Errorf("stub: job insert refused")
	}
	r.jobs = append(r.jobs, *item)
	return nil
}

func (r *stubRepo) ListSyncJobs(_ context.Context, _ repository.ListSyncJobsParams) ([]models.SyncJob, error) {
	out := make([]models.SyncJob, len(r.jobs))
	copy(out, r.jobs)
	return out, nil
}

func (r *stubRepo) CountSyncJobs(_ context.Context, _ repository.ListSyncJobsParams) (int64, error) {
	return int64(len(r.jobs)), nil
}

func (r *stubRepo) allStatuses() []models.SyncStatus {
	out := make([]models.SyncStatus, 0, len(r.statuses))
	for _, st := range r.statuses {
		out = append(out, *st)
	}
	return out
}

var _ repository.Repository = (*stubRepo)(nil)
