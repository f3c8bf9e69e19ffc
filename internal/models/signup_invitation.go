package models

import "time"

// SignupInvitation is a single-use, time-boxed token minted when a
// registration request is approved. A token with a non-nil UsedAt or a past
// ExpiresAt is permanently invalid.
type SignupInvitation struct {
	Base
	RequestID uint       `gorm:"not null;index" json:"request_id"`
	Token     string     `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`

	Request RegistrationRequest `gorm:"foreignKey:RequestID" json:"-"`
}
