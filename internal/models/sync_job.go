package models

import (
	"time"

	"gorm.io/datatypes"
)

// SyncJob is one queued unit of provider sync work. Rows are inserted by the
// manual trigger (and external schedulers); the provider sync workers consume
// and mutate them.
type SyncJob struct {
	ID            string         `gorm:"primaryKey;type:uuid"`
	IntegrationID string         `gorm:"type:uuid;not null;index"`
	Provider      string         `gorm:"type:text;not null"`
	JobType       string         `gorm:"type:text;not null;index"`
	Status        string         `gorm:"type:text;not null;default:'pending';index"`
	Cursor        *string        `gorm:"type:text"`
	ItemsSynced   int            `gorm:"not null;default:0"`
	RetryCount    int            `gorm:"not null;default:0"`
	Payload       datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt     time.Time      `gorm:"type:timestamptz;autoCreateTime;index"`
	UpdatedAt     time.Time      `gorm:"type:timestamptz;autoUpdateTime"`
}

func (SyncJob) TableName() string {
	return "booking_sync_queue"
}

// Job types created by the manual trigger.
const (
	JobTypeCalls    = "calls"
	JobTypeMessages = "messages"
)

const JobStatusPending = "pending"
