package persistence

import (
	"time"
)

// Spool statuses. An event moves pending -> sent, or pending ->
// abandoned after too many delivery failures.
const (
	SpoolStatusPending   = "pending"
	SpoolStatusSent      = "sent"
	SpoolStatusAbandoned = "abandoned"
)

// SpooledEvent is an analytics event written durably before delivery
// to the platform. The spool lets the gateway accept tracking beacons
// even while the platform ingest endpoint is down.
type SpooledEvent struct {
	ID         uint      `gorm:"primaryKey"`
	EventID    string    `gorm:"uniqueIndex;size:64;not null"`
	Name       string    `gorm:"size:128;not null;index"`
	SessionID  string    `gorm:"size:64;index"`
	VisitorID  string    `gorm:"size:64"`
	Properties string    `gorm:"type:text"` // JSON-encoded map
	OccurredAt time.Time `gorm:"not null"`

	Status    string `gorm:"size:16;not null;default:pending;index"`
	Attempts  int    `gorm:"not null;default:0"`
	LastError string `gorm:"type:text"`

	CreatedAt time.Time
	SentAt    *time.Time
}

// TableName keeps the table name stable across gorm naming strategy
// changes
func (SpooledEvent) TableName() string {
	return "spooled_events"
}
