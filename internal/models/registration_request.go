package models

import "time"

// RequestStatus represents the review state of a registration request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "Pending"
	StatusApproved RequestStatus = "Approved"
	StatusRejected RequestStatus = "Rejected"
)

// RegistrationRequest is an applicant's pending signup awaiting admin review.
// A request transitions Pending -> Approved or Pending -> Rejected exactly
// once; both outcomes are terminal.
type RegistrationRequest struct {
	Base
	FirstName        string        `gorm:"not null" json:"first_name"`
	LastName         string        `gorm:"not null" json:"last_name"`
	Email            string        `gorm:"not null" json:"email"`
	DOB              time.Time     `json:"dob"`
	Address          string        `json:"address"`
	Status           RequestStatus `gorm:"not null;default:'Pending';index" json:"status"`
	ReviewedByUserID *uint         `json:"reviewed_by_user_id,omitempty"`
	ReviewDate       *time.Time    `json:"review_date,omitempty"`
	RejectionReason  string        `json:"rejection_reason,omitempty"`
}
