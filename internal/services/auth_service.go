package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "finken/internal/errors"
	"finken/internal/logger"
	"finken/internal/models"
	"finken/internal/password"
)

// maxFailedLogins is the number of consecutive failed sign-in attempts before
// an account is automatically suspended.
const maxFailedLogins = 3

const lockoutReason = "Too many failed login attempts"

// authService verifies submitted credentials at sign-in time.
type authService struct {
	db *gorm.DB
}

// NewAuthService creates a new AuthServicer.
func NewAuthService(db *gorm.DB) AuthServicer {
	return &authService{db: db}
}

// SignIn authenticates a username/password pair. Unknown usernames and wrong
// passwords share one generic message; inactive and suspended accounts are
// disclosed distinctly since the caller has already proven the username.
func (s *authService) SignIn(username, plaintext string) (*SignInResult, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Username is required")
	}
	if plaintext == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Password is required")
	}

	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if !user.IsActive {
		return nil, apperrors.ErrAccountInactive
	}
	if user.IsSuspended {
		return nil, apperrors.ErrAccountSuspended
	}
	if user.PasswordHash == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInternalServer, "Account configuration error. Please contact an administrator.")
	}

	if !password.Verify(plaintext, user.PasswordHash) {
		return nil, s.recordFailedAttempt(&user)
	}

	// Best-effort bookkeeping; a failed update must not block the login.
	now := time.Now()
	err := s.db.Model(&user).Updates(map[string]interface{}{
		"failed_login_attempts": 0,
		"last_login":            now,
	}).Error
	if err != nil {
		logger.Get().Warnw("failed to update login bookkeeping", "username", username, "error", err)
	}

	return &SignInResult{
		UserID:    user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Role:      s.resolveRoleName(user.RoleID),
		IsActive:  user.IsActive,
	}, nil
}

// recordFailedAttempt increments the failure counter and suspends the account
// once the threshold is reached. The returned error distinguishes the
// just-suspended case from an ordinary credential failure.
func (s *authService) recordFailedAttempt(user *models.User) error {
	attempts := user.FailedLoginAttempts + 1
	now := time.Now()

	updates := map[string]interface{}{
		"failed_login_attempts": attempts,
		"last_failed_login":     now,
	}
	suspended := attempts >= maxFailedLogins
	if suspended {
		updates["is_suspended"] = true
		updates["suspension_reason"] = lockoutReason
	}

	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		logger.Get().Warnw("failed to record failed login attempt", "username", user.Username, "error", err)
		return apperrors.ErrInvalidCredentials
	}

	if suspended {
		return apperrors.ErrAccountLockedOut
	}
	return apperrors.ErrInvalidCredentials
}

// resolveRoleName looks up the role name, falling back to the built-in
// mapping when the roles table has no row.
func (s *authService) resolveRoleName(roleID uint) string {
	var role models.Role
	if err := s.db.First(&role, roleID).Error; err == nil {
		if name := strings.ToLower(strings.TrimSpace(role.Name)); name != "" {
			return name
		}
	}
	return models.DefaultRoleName(roleID)
}
