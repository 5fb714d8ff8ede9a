package models

import (
	"time"

	"gorm.io/datatypes"
)

// Integration is one connected external provider account (telephony or
// calendar vendor) for one tenant. Rows are created when a user connects a
// provider; this service only mutates the polling cadence and last_sync_at.
type Integration struct {
	ID                     string         `gorm:"primaryKey;type:uuid"`
	UserID                 *string        `gorm:"type:uuid;index"`
	OrganizationID         *string        `gorm:"type:uuid;index"`
	Provider               string         `gorm:"type:text;not null"`
	Category               string         `gorm:"type:text;not null;index"`
	PollingEnabled         bool           `gorm:"not null;default:false"`
	PollingIntervalMinutes int            `gorm:"not null;default:15"`
	LastSyncAt             *time.Time     `gorm:"type:timestamptz"`
	Metadata               datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt              time.Time      `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt              time.Time      `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Integration) TableName() string {
	return "integrations"
}

// Provider categories.
const (
	CategoryTelephony = "telephony"
	CategoryCalendar  = "calendar"
	CategoryMulti     = "multi"
)
