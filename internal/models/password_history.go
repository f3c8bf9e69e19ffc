package models

import "time"

// PasswordHistory is an append-only log of a user's previous password hashes,
// including the initial signup password. It backs the reuse-prevention check
// on password changes.
type PasswordHistory struct {
	Base
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	PasswordHash string    `gorm:"not null" json:"-"`
	DateSet      time.Time `gorm:"not null" json:"date_set"`
}
