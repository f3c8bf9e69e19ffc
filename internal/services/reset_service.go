package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "finken/internal/errors"
	"finken/internal/models"
	"finken/internal/password"
)

// resetService handles the security-question password reset flow.
type resetService struct {
	db *gorm.DB
}

// NewResetService creates a new ResetServicer.
func NewResetService(db *gorm.DB) ResetServicer {
	return &resetService{db: db}
}

// FindUser looks up an account by username and confirms the email matches.
// Every failure mode returns the same generic error so the endpoint cannot be
// used to enumerate accounts.
func (s *resetService) FindUser(email, username string) (uint, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)
	if email == "" || username == "" {
		return 0, apperrors.ErrUserNotFound
	}

	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.ErrUserNotFound
		}
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if !strings.EqualFold(user.Email, email) {
		return 0, apperrors.ErrUserNotFound
	}
	return user.ID, nil
}

// VerifySecurityAnswer checks the supplied answer against the user's stored
// answer hash.
func (s *resetService) VerifySecurityAnswer(userID uint, answer string) error {
	var record models.SecurityAnswer
	if err := s.db.Where("user_id = ?", userID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNoSecurityAnswer
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if !password.Verify(strings.TrimSpace(answer), record.AnswerHash) {
		return apperrors.ErrWrongAnswer
	}
	return nil
}

// ChangePassword rotates the user's password: policy check, reuse check
// against the full password history, then update plus a new history entry.
//
// The reuse check is O(n) hash verifications over the history; history is
// small per user but unbounded, which is a known scaling bound.
func (s *resetService) ChangePassword(userID uint, newPassword string) error {
	if ok, reason := password.Validate(newPassword); !ok {
		return apperrors.WithMessage(apperrors.ErrPasswordPolicy, reason)
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var history []models.PasswordHistory
	if err := s.db.Where("user_id = ?", userID).Find(&history).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, entry := range history {
		if password.Verify(newPassword, entry.PasswordHash) {
			return apperrors.ErrPasswordReused
		}
	}

	newHash, err := password.Hash(newPassword)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := time.Now()
	expiresAt := now.AddDate(0, 0, passwordValidDays)
	err = s.db.Model(&user).Updates(map[string]interface{}{
		"password_hash":       newHash,
		"password_expires_at": expiresAt,
	}).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	entry := &models.PasswordHistory{
		UserID:       userID,
		PasswordHash: newHash,
		DateSet:      now,
	}
	if err := s.db.Create(entry).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
