package gormrepository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"syncmonitor/internal/models"
	"syncmonitor/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// --- integrations ------------------------------------------------------------

func (s *Store) GetIntegrationByID(ctx context.Context, id string) (*models.Integration, error) {
	if s == nil || s.db == nil || strings.TrimSpace(id) == "" {
		return nil, nil
	}
	var item models.Integration
	err := s.db.WithContext(ctx).Where("id = ?", strings.TrimSpace(id)).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListIntegrationsByIDs(ctx context.Context, ids []string) ([]models.Integration, error) {
	if s == nil || s.db == nil || len(ids) == 0 {
		return nil, nil
	}
	var items []models.Integration
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListIntegrationIDsWithoutStatus(ctx context.Context) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&models.Integration{}).
		Where("id NOT IN (?)", s.db.Model(&models.SyncStatus{}).Select("integration_id")).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Store) UpdateIntegrationPolling(ctx context.Context, id string, intervalMinutes int, enabled *bool) error {
	if s == nil || s.db == nil || strings.TrimSpace(id) == "" {
		return nil
	}
	updates := map[string]any{
		"polling_interval_minutes": intervalMinutes,
		"updated_at":               time.Now().UTC(),
	}
	if enabled != nil {
		updates["polling_enabled"] = *enabled
	}
	return s.db.WithContext(ctx).
		Model(&models.Integration{}).
		Where("id = ?", strings.TrimSpace(id)).
		Updates(updates).Error
}

func (s *Store) StampIntegrationLastSync(ctx context.Context, id string, at time.Time) error {
	if s == nil || s.db == nil || strings.TrimSpace(id) == "" {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Integration{}).
		Where("id = ?", strings.TrimSpace(id)).
		Updates(map[string]any{
			"last_sync_at": at,
			"updated_at":   time.Now().UTC(),
		}).Error
}

// --- sync status -------------------------------------------------------------

func (s *Store) GetSyncStatus(ctx context.Context, integrationID string) (*models.SyncStatus, error) {
	if s == nil || s.db == nil || strings.TrimSpace(integrationID) == "" {
		return nil, nil
	}
	var item models.SyncStatus
	err := s.db.WithContext(ctx).
		Where("integration_id = ?", strings.TrimSpace(integrationID)).
		First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListSyncStatuses(ctx context.Context, params repository.ListSyncStatusesParams) ([]models.SyncStatus, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.applySyncStatusFilters(ctx, params)
	query = applyOrder(query, params.OrderBy, params.Asc, "updated_at")
	limit := normalizeLimit(params.Limit, 100)
	offset := normalizeOffset(params.Offset)
	var items []models.SyncStatus
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountSyncStatuses(ctx context.Context, params repository.ListSyncStatusesParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.applySyncStatusFilters(ctx, params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) applySyncStatusFilters(ctx context.Context, params repository.ListSyncStatusesParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.SyncStatus{})
	if params.OverallHealth != nil && strings.TrimSpace(*params.OverallHealth) != "" {
		query = query.Where("overall_health = ?", strings.TrimSpace(*params.OverallHealth))
	}
	if params.SyncMethod != nil && strings.TrimSpace(*params.SyncMethod) != "" {
		query = query.Where("sync_method = ?", strings.TrimSpace(*params.SyncMethod))
	}
	return query
}

func (s *Store) ListAllSyncStatuses(ctx context.Context) ([]models.SyncStatus, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.SyncStatus
	if err := s.db.WithContext(ctx).
		Model(&models.SyncStatus{}).
		Order("integration_id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListWebhookEnabledSyncStatuses(ctx context.Context) ([]models.SyncStatus, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.SyncStatus
	if err := s.db.WithContext(ctx).
		Model(&models.SyncStatus{}).
		Where("webhook_enabled = ?", true).
		Order("integration_id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) UpsertSyncStatus(ctx context.Context, item *models.SyncStatus) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if strings.TrimSpace(item.IntegrationID) == "" {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "integration_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"webhook_enabled",
			"polling_enabled",
			"last_webhook_received_at",
			"last_successful_poll_at",
			"webhook_health_status",
			"polling_health_status",
			"overall_health",
			"sync_confidence_percentage",
			"sync_method",
			"stats_json",
			"updated_at",
		}),
	}).Create(item).Error
}

func (s *Store) UpdateSyncStatusHealth(ctx context.Context, integrationID string, update repository.SyncHealthUpdate) error {
	if s == nil || s.db == nil || strings.TrimSpace(integrationID) == "" {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.SyncStatus{}).
		Where("integration_id = ?", strings.TrimSpace(integrationID)).
		Updates(map[string]any{
			"webhook_health_status":      update.WebhookHealth,
			"polling_health_status":      update.PollingHealth,
			"overall_health":             update.OverallHealth,
			"sync_confidence_percentage": update.Confidence,
			"updated_at":                 update.UpdatedAt,
		}).Error
}

func (s *Store) UpdateSyncStatusFallback(ctx context.Context, integrationID string, update repository.FallbackUpdate) error {
	if s == nil || s.db == nil || strings.TrimSpace(integrationID) == "" {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.SyncStatus{}).
		Where("integration_id = ?", strings.TrimSpace(integrationID)).
		Updates(map[string]any{
			"webhook_health_status":      update.WebhookHealth,
			"sync_method":                update.SyncMethod,
			"overall_health":             update.OverallHealth,
			"sync_confidence_percentage": update.Confidence,
			"updated_at":                 update.UpdatedAt,
		}).Error
}

func (s *Store) MarkWebhookReceived(ctx context.Context, integrationID string, at time.Time) (int64, error) {
	if s == nil || s.db == nil || strings.TrimSpace(integrationID) == "" {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.SyncStatus{}).
		Where("integration_id = ?", strings.TrimSpace(integrationID)).
		Updates(map[string]any{
			"last_webhook_received_at": at,
			"updated_at":               time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

func (s *Store) MarkPollSuccess(ctx context.Context, integrationID string, at time.Time) (int64, error) {
	if s == nil || s.db == nil || strings.TrimSpace(integrationID) == "" {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.SyncStatus{}).
		Where("integration_id = ?", strings.TrimSpace(integrationID)).
		Updates(map[string]any{
			"last_successful_poll_at": at,
			"updated_at":              time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

// --- sync jobs ---------------------------------------------------------------

func (s *Store) InsertSyncJob(ctx context.Context, item *models.SyncJob) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListSyncJobs(ctx context.Context, params repository.ListSyncJobsParams) ([]models.SyncJob, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.applySyncJobFilters(ctx, params)
	query = applyOrder(query, params.OrderBy, params.Asc, "created_at")
	limit := normalizeLimit(params.Limit, 100)
	offset := normalizeOffset(params.Offset)
	var items []models.SyncJob
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountSyncJobs(ctx context.Context, params repository.ListSyncJobsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.applySyncJobFilters(ctx, params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) applySyncJobFilters(ctx context.Context, params repository.ListSyncJobsParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.SyncJob{})
	if params.IntegrationID != nil && strings.TrimSpace(*params.IntegrationID) != "" {
		query = query.Where("integration_id = ?", strings.TrimSpace(*params.IntegrationID))
	}
	if params.Status != nil && strings.TrimSpace(*params.Status) != "" {
		query = query.Where("status = ?", strings.TrimSpace(*params.Status))
	}
	if params.JobType != nil && strings.TrimSpace(*params.JobType) != "" {
		query = query.Where("job_type = ?", strings.TrimSpace(*params.JobType))
	}
	return query
}

// --- helpers -----------------------------------------------------------------

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	col := strings.TrimSpace(orderBy)
	if col == "" {
		col = fallback
	}
	dir := "desc"
	if asc != nil && *asc {
		dir = "asc"
	}
	return query.Order(col + " " + dir)
}

func normalizeLimit(limit, def int) int {
	if limit <= 0 || limit > 1000 {
		return def
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
