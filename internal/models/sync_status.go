package models

import (
	"time"

	"gorm.io/datatypes"
)

// SyncStatus tracks the ingestion health of a single integration, one row
// per integration. sync_confidence_percentage is always derivable from the
// two channel statuses; it is persisted so the dashboard can read it without
// reimplementing the scoring table.
type SyncStatus struct {
	IntegrationID            string         `gorm:"primaryKey;type:uuid"`
	WebhookEnabled           bool           `gorm:"not null;default:true"`
	PollingEnabled           bool           `gorm:"not null;default:false"`
	LastWebhookReceivedAt    *time.Time     `gorm:"type:timestamptz"`
	LastSuccessfulPollAt     *time.Time     `gorm:"type:timestamptz"`
	WebhookHealthStatus      string         `gorm:"type:text;not null;default:'unknown'"`
	PollingHealthStatus      string         `gorm:"type:text;not null;default:'unknown'"`
	OverallHealth            string         `gorm:"type:text;not null;default:'error';index"`
	SyncConfidencePercentage int            `gorm:"not null;default:0"`
	SyncMethod               string         `gorm:"type:text;not null;default:'webhook'"`
	StatsJSON                datatypes.JSON `gorm:"type:jsonb"`
	UpdatedAt                time.Time      `gorm:"type:timestamptz;not null"`
}

func (SyncStatus) TableName() string {
	return "provider_sync_status"
}
