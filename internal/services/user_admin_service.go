package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "finken/internal/errors"
	"finken/internal/models"
	"finken/internal/pagination"
)

// userAdminService handles administrator-facing user management.
type userAdminService struct {
	db    *gorm.DB
	audit AuditServicer
}

// NewUserAdminService creates a new UserAdminServicer.
func NewUserAdminService(db *gorm.DB, audit AuditServicer) UserAdminServicer {
	return &userAdminService{db: db, audit: audit}
}

// GetUserByID returns a single user.
func (s *userAdminService) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// ListUsers returns a paginated user list. statusFilter accepts "active",
// "inactive", or "suspended"; searchTerm matches username, email, and names.
func (s *userAdminService) ListUsers(page pagination.PageRequest, searchTerm, statusFilter string) (*pagination.PageResponse[models.User], error) {
	page.Defaults()

	base := s.db.Model(&models.User{})
	switch statusFilter {
	case "active":
		base = base.Where("is_active = ? AND is_suspended = ?", true, false)
	case "inactive":
		base = base.Where("is_active = ?", false)
	case "suspended":
		base = base.Where("is_suspended = ?", true)
	case "":
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unknown status filter")
	}

	if term := strings.TrimSpace(searchTerm); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		base = base.Where(
			"lower(username) LIKE ? OR lower(email) LIKE ? OR lower(first_name) LIKE ? OR lower(last_name) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var users []models.User
	if err := base.Order("username ASC").Scopes(pagination.Paginate(page)).Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(users, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateUser applies admin edits to a user record. Nil input fields are left
// unchanged. The change is event-logged under the acting admin's ID.
func (s *userAdminService) UpdateUser(userID uint, actorID uint, input UpdateUserInput) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	before := map[string]interface{}{
		"email": user.Email, "first_name": user.FirstName, "last_name": user.LastName,
		"address": user.Address, "role_id": user.RoleID, "is_active": user.IsActive,
	}

	updates := map[string]interface{}{}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email == "" || !strings.Contains(email, "@") {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Please enter a valid email address")
		}
		updates["email"] = email
	}
	if input.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*input.LastName)
	}
	if input.Address != nil {
		updates["address"] = strings.TrimSpace(*input.Address)
	}
	if input.RoleID != nil {
		switch *input.RoleID {
		case models.RoleAdministrator, models.RoleManager, models.RoleAccountant:
			updates["role_id"] = *input.RoleID
		default:
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unknown role")
		}
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.audit.Log(actorID, "UPDATE", "users", userID, before, updates)
	return s.GetUserByID(userID)
}

// SuspendUser suspends a user account until the given end date. Only
// administrators may suspend, the end date must be in the future, and the
// target account must have been activated.
func (s *userAdminService) SuspendUser(userID, adminID uint, endDate time.Time, reason string) error {
	if endDate.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Suspension end date is required")
	}
	if !endDate.After(time.Now()) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Suspension end date must be in the future")
	}

	admin, err := s.GetUserByID(adminID)
	if err != nil {
		return apperrors.WithMessage(apperrors.ErrNotFound, "Admin user not found")
	}
	if admin.RoleID != models.RoleAdministrator {
		return apperrors.WithMessage(apperrors.ErrForbidden, "Only administrators can suspend user accounts")
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	if !user.IsActive {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "User account has not been activated")
	}

	updates := map[string]interface{}{
		"is_suspended":        true,
		"suspension_end_date": endDate,
	}
	if reason != "" {
		updates["suspension_reason"] = reason
	}
	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.audit.Log(adminID, "SUSPEND", "users", userID, nil, updates)
	return nil
}

// UnsuspendUser lifts a suspension and clears the failed-login counter so
// the user is not immediately locked out again.
func (s *userAdminService) UnsuspendUser(userID uint, adminID uint) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	if !user.IsSuspended {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "User account is not suspended")
	}

	updates := map[string]interface{}{
		"is_suspended":          false,
		"suspension_reason":     "",
		"suspension_end_date":   nil,
		"failed_login_attempts": 0,
	}
	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.audit.Log(adminID, "UNSUSPEND", "users", userID, nil, nil)
	return nil
}

// SetProfilePicture records the stored profile picture file name. An empty
// file name clears it.
func (s *userAdminService) SetProfilePicture(userID uint, fileName string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	if err := s.db.Model(user).Update("profile_picture", fileName).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// AutoUnsuspend lifts every suspension whose end date has passed and returns
// the number of accounts released.
func (s *userAdminService) AutoUnsuspend() (int, error) {
	res := s.db.Model(&models.User{}).
		Where("is_suspended = ? AND suspension_end_date IS NOT NULL AND suspension_end_date < ?", true, time.Now()).
		Updates(map[string]interface{}{
			"is_suspended":          false,
			"suspension_reason":     "",
			"suspension_end_date":   nil,
			"failed_login_attempts": 0,
		})
	if res.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	return int(res.RowsAffected), nil
}

// GetExpiringPasswords lists active users whose password expires within
// daysAhead days. With showAll, users without an expiry date are included
// too.
func (s *userAdminService) GetExpiringPasswords(daysAhead int, showAll bool) ([]models.User, error) {
	base := s.db.Model(&models.User{}).Where("is_active = ?", true)
	if !showAll {
		cutoff := time.Now().AddDate(0, 0, daysAhead)
		base = base.Where("password_expires_at IS NOT NULL AND password_expires_at <= ?", cutoff)
	}

	var users []models.User
	if err := base.Order("password_expires_at ASC").Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return users, nil
}
