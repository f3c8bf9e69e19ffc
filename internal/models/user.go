package models

import "time"

// User represents an activated FinKen account. Users are only ever created by
// finalizing a signup invitation; the public registration form creates a
// RegistrationRequest instead.
type User struct {
	Base
	Username            string     `gorm:"uniqueIndex;not null" json:"username"`
	Email               string     `gorm:"not null;index" json:"email"`
	PasswordHash        string     `gorm:"not null" json:"-"`
	FirstName           string     `json:"first_name"`
	LastName            string     `json:"last_name"`
	DOB                 *time.Time `json:"dob,omitempty"`
	Address             string     `json:"address,omitempty"`
	RoleID              uint       `gorm:"not null;default:3" json:"role_id"`
	IsActive            bool       `gorm:"default:true" json:"is_active"`
	IsSuspended         bool       `gorm:"default:false" json:"is_suspended"`
	SuspensionReason    string     `json:"-"`
	SuspensionEndDate   *time.Time `json:"-"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LastFailedLogin     *time.Time `json:"-"`
	LastLogin           *time.Time `json:"last_login,omitempty"`
	PasswordExpiresAt   *time.Time `json:"password_expires_at,omitempty"`
	ProfilePicture      string     `json:"profile_picture,omitempty"`
}
