package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"syncmonitor/internal/auth"
	"syncmonitor/internal/models"
	"syncmonitor/internal/repository"
)

// TelephonySyncer is the external telephony-account-sync function.
type TelephonySyncer interface {
	SyncAccount(ctx context.Context, accountID string) (map[string]any, error)
}

// CalendarSyncer is the external calendar-sync function.
type CalendarSyncer interface {
	Sync(ctx context.Context, integrationID string, force bool) (map[string]any, error)
}

// TriggerResult is the structured outcome returned to the dashboard.
type TriggerResult struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

// ManualSyncTrigger lets an authenticated owner force an immediate sync of
// one integration, bypassing the schedule. Queue bookkeeping is best-effort:
// a failed job insert is logged but never blocks the provider sync call.
type ManualSyncTrigger struct {
	Repo      repository.Repository
	Telephony TelephonySyncer
	Calendar  CalendarSyncer
	Logger    *zap.Logger
}

// Trigger validates ownership, enqueues sync jobs where applicable, invokes
// the provider-specific sync routine and stamps last_sync_at. Auth and
// lookup failures map to ErrUnauthorized/ErrNotFound; a delegated sync
// failure is returned alongside the partial result.
func (s *ManualSyncTrigger) Trigger(ctx context.Context, ident auth.Identity, integrationID string) (TriggerResult, error) {
	result := TriggerResult{Details: map[string]any{}}
	if s == nil || s.Repo == nil {
		result.Message = "sync trigger unavailable"
		return result, fmt.Errorf("sync trigger unavailable")
	}
	if ident.Empty() {
		result.Message = "unauthorized"
		return result, ErrUnauthorized
	}
	integrationID = strings.TrimSpace(integrationID)
	if integrationID == "" {
		result.Message = "integration_id is required"
		return result, fmt.Errorf("integration_id is required")
	}

	integ, err := s.Repo.GetIntegrationByID(ctx, integrationID)
	if err != nil {
		result.Message = err.Error()
		return result, err
	}
	if integ == nil {
		result.Message = "integration not found"
		return result, ErrNotFound
	}
	if !ownedBy(integ, ident) {
		result.Message = "unauthorized"
		return result, ErrUnauthorized
	}

	var syncErr error
	switch integ.Category {
	case models.CategoryTelephony, models.CategoryMulti:
		queued := s.enqueueJobs(ctx, integ, models.JobTypeCalls, models.JobTypeMessages)
		result.Details["jobs_queued"] = queued

		out, err := s.syncTelephony(ctx, integ.ID)
		if out != nil {
			result.Details["telephony"] = out
		}
		syncErr = err

	case models.CategoryCalendar:
		out, err := s.syncCalendar(ctx, integ.ID)
		if out != nil {
			result.Details["calendar"] = out
		}
		syncErr = err

	default:
		result.Success = true
		result.Message = fmt.Sprintf("unknown integration type %q, no sync performed", integ.Category)
	}

	// The queue rows above stay committed even when the delegated sync
	// failed; the periodic jobs retry them later.
	s.stampLastSync(ctx, integ.ID)

	if syncErr != nil {
		result.Success = false
		result.Message = syncErr.Error()
		return result, syncErr
	}
	if result.Message == "" {
		result.Success = true
		result.Message = fmt.Sprintf("sync triggered for %s integration", integ.Category)
	}
	return result, nil
}

func ownedBy(integ *models.Integration, ident auth.Identity) bool {
	if integ.UserID != nil && strings.TrimSpace(*integ.UserID) != "" &&
		strings.TrimSpace(*integ.UserID) == ident.UserID {
		return true
	}
	if integ.OrganizationID != nil && strings.TrimSpace(*integ.OrganizationID) != "" &&
		strings.TrimSpace(*integ.OrganizationID) == ident.OrganizationID {
		return true
	}
	return false
}

func (s *ManualSyncTrigger) enqueueJobs(ctx context.Context, integ *models.Integration, jobTypes ...string) int {
	queued := 0
	for _, jobType := range jobTypes {
		job := &models.SyncJob{
			ID:            uuid.NewString(),
			IntegrationID: integ.ID,
			Provider:      integ.Provider,
			JobType:       jobType,
			Status:        models.JobStatusPending,
			ItemsSynced:   0,
			RetryCount:    0,
		}
		if err := s.Repo.InsertSyncJob(ctx, job); err != nil {
			s.logWarn("sync job insert failed", err,
				zap.String("integration_id", integ.ID),
				zap.String("job_type", jobType),
			)
			continue
		}
		queued++
	}
	return queued
}

func (s *ManualSyncTrigger) syncTelephony(ctx context.Context, integrationID string) (map[string]any, error) {
	if s.Telephony == nil {
		return nil, fmt.Errorf("telephony sync is not configured")
	}
	return s.Telephony.SyncAccount(ctx, integrationID)
}

func (s *ManualSyncTrigger) syncCalendar(ctx context.Context, integrationID string) (map[string]any, error) {
	if s.Calendar == nil {
		return nil, fmt.Errorf("calendar sync is not configured")
	}
	return s.Calendar.Sync(ctx, integrationID, true)
}

func (s *ManualSyncTrigger) stampLastSync(ctx context.Context, integrationID string) {
	if err := s.Repo.StampIntegrationLastSync(ctx, integrationID, time.Now().UTC()); err != nil {
		s.logWarn("last_sync_at stamp failed", err, zap.String("integration_id", integrationID))
	}
}

func (s *ManualSyncTrigger) logWarn(msg string, err error, fields ...zap.Field) {
	if s == nil || s.Logger == nil {
		return
	}
	s.Logger.Warn(msg, append(fields, zap.Error(err))...)
}
