package models

import "time"

// EventLog records before/after snapshots of sensitive table changes for
// audit purposes. Writes are best-effort and never abort the primary
// operation.
type EventLog struct {
	Base
	UserID      uint      `gorm:"index" json:"user_id"`
	Timestamp   time.Time `gorm:"not null" json:"timestamp"`
	ActionType  string    `gorm:"not null" json:"action_type"`
	TableName   string    `gorm:"not null" json:"table_name"`
	RecordID    uint      `json:"record_id"`
	BeforeValue string    `json:"before_value,omitempty"`
	AfterValue  string    `json:"after_value,omitempty"`
}
