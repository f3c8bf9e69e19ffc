package models

// SecurityQuestion is an entry in the fixed catalog of challenge questions
// shown during signup.
type SecurityQuestion struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	QuestionText string `gorm:"uniqueIndex;not null" json:"question_text"`
}

// SecurityAnswer stores a user's chosen question and the salted hash of the
// answer. At most one answer exists per user; it authorizes password resets
// without the original password.
type SecurityAnswer struct {
	Base
	UserID     uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	QuestionID uint   `gorm:"not null" json:"question_id"`
	AnswerHash string `gorm:"not null" json:"-"`
}
