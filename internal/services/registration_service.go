package services

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "finken/internal/errors"
	"finken/internal/logger"
	"finken/internal/models"
	"finken/internal/pagination"
	"finken/internal/password"
)

const (
	tokenBytes        = 32
	minApplicantAge   = 16
	passwordValidDays = 90
)

// registrationService handles the registration request lifecycle.
type registrationService struct {
	db      *gorm.DB
	mailer  Mailer
	baseURL string
}

// NewRegistrationService creates a new RegistrationServicer.
func NewRegistrationService(db *gorm.DB, mailer Mailer, baseURL string) RegistrationServicer {
	return &registrationService{db: db, mailer: mailer, baseURL: baseURL}
}

// SubmitRequest records a public signup form submission as a pending
// registration request and notifies administrators by email (best-effort).
func (s *registrationService) SubmitRequest(firstName, lastName, email, dob string) (*models.RegistrationRequest, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	email = strings.ToLower(strings.TrimSpace(email))

	if firstName == "" || lastName == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "First and last name are required")
	}
	if email == "" || !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Please enter a valid email address")
	}

	birthDate, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Date of birth must be in YYYY-MM-DD format")
	}
	if age(birthDate, time.Now()) < minApplicantAge {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "You must be at least 16 years old to register")
	}

	request := &models.RegistrationRequest{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		DOB:       birthDate,
		Status:    models.StatusPending,
	}
	if err := s.db.Create(request).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.notifyAdmins(request)
	return request, nil
}

// GetRequestByID returns a single registration request.
func (s *registrationService) GetRequestByID(requestID uint) (*models.RegistrationRequest, error) {
	var request models.RegistrationRequest
	if err := s.db.First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &request, nil
}

// ListRequests returns a paginated list of registration requests, optionally
// filtered by status and a name/email search term.
func (s *registrationService) ListRequests(page pagination.PageRequest, searchTerm string, status models.RequestStatus) (*pagination.PageResponse[models.RegistrationRequest], error) {
	page.Defaults()

	base := s.db.Model(&models.RegistrationRequest{})
	if status != "" {
		base = base.Where("status = ?", status)
	}
	if term := strings.TrimSpace(searchTerm); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		base = base.Where(
			"lower(first_name) LIKE ? OR lower(last_name) LIKE ? OR lower(email) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var requests []models.RegistrationRequest
	if err := base.Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&requests).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(requests, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// Approve transitions a pending request to Approved, mints a single-use
// invitation token, and emails the applicant a signup link.
//
// The status transition is a conditional update so two concurrent reviews
// cannot both succeed. If the email send fails the approval and invitation
// stay persisted; the caller gets EMAIL_FAILED and may re-send manually.
func (s *registrationService) Approve(requestID, reviewerID uint, ttl time.Duration) error {
	request, err := s.GetRequestByID(requestID)
	if err != nil {
		return err
	}

	now := time.Now()
	res := s.db.Model(&models.RegistrationRequest{}).
		Where("id = ? AND status = ?", requestID, models.StatusPending).
		Updates(map[string]interface{}{
			"status":              models.StatusApproved,
			"reviewed_by_user_id": reviewerID,
			"review_date":         now,
		})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.WithMessage(apperrors.ErrAlreadyProcessed,
			fmt.Sprintf("Registration request is already %s", request.Status))
	}

	token, err := generateToken()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	invitation := &models.SignupInvitation{
		RequestID: requestID,
		Token:     token,
		ExpiresAt: now.Add(ttl),
	}
	if err := s.db.Create(invitation).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	link := fmt.Sprintf("%s/FinishSignUp?token=%s", s.baseURL, token)
	applicantName := strings.TrimSpace(request.FirstName + " " + request.LastName)
	body := fmt.Sprintf(`
		<p>Hello %s,</p>
		<p>Your registration has been approved. Click the link below to complete your FinKen account setup:</p>
		<p><a href="%s">%s</a></p>
		<p>This link will expire in %d hours and can be used once.</p>
	`, applicantName, link, link, int(ttl.Hours()))

	if err := s.mailer.Send("", "FinKen Admin", request.Email, "Complete your FinKen account setup", body); err != nil {
		return apperrors.Wrap(apperrors.ErrEmailFailed, err)
	}
	return nil
}

// Reject transitions a pending request to Rejected. No email is sent.
func (s *registrationService) Reject(requestID, reviewerID uint, reason string) error {
	request, err := s.GetRequestByID(requestID)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"status":              models.StatusRejected,
		"reviewed_by_user_id": reviewerID,
		"review_date":         time.Now(),
	}
	if reason != "" {
		updates["rejection_reason"] = reason
	}

	res := s.db.Model(&models.RegistrationRequest{}).
		Where("id = ? AND status = ?", requestID, models.StatusPending).
		Updates(updates)
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.WithMessage(apperrors.ErrAlreadyProcessed,
			fmt.Sprintf("Registration request is already %s", request.Status))
	}
	return nil
}

// GetSignupContext validates a signup token and returns the underlying
// request plus the security question catalog. The token must be unused,
// unexpired, and belong to an approved request.
func (s *registrationService) GetSignupContext(token string) (*SignupContext, error) {
	var invitation models.SignupInvitation
	if err := s.db.Where("token = ?", token).First(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if invitation.UsedAt != nil {
		return nil, apperrors.ErrTokenUsed
	}
	if !time.Now().Before(invitation.ExpiresAt) {
		return nil, apperrors.ErrTokenExpired
	}

	var request models.RegistrationRequest
	if err := s.db.First(&request, invitation.RequestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotApprovable
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if request.Status != models.StatusApproved {
		return nil, apperrors.ErrNotApprovable
	}

	var questions []models.SecurityQuestion
	if err := s.db.Order("question_text ASC").Find(&questions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &SignupContext{Request: &request, Questions: questions}, nil
}

// FinalizeSignup redeems a signup invitation: it re-validates the token,
// checks the password and security answer, creates the user with a generated
// username, records the initial password history entry and hashed answer, and
// marks the invitation used.
//
// The steps after user creation are sequential writes, not a transaction; the
// invitation is marked used last, so a crash mid-way never burns a token
// without an account behind it.
func (s *registrationService) FinalizeSignup(token, plaintext, confirmPassword string, questionID uint, answer string) (*SignupResult, error) {
	// Token validity is re-checked on every call, never cached from an
	// earlier context fetch.
	ctx, err := s.GetSignupContext(token)
	if err != nil {
		return nil, err
	}

	if plaintext == "" || confirmPassword == "" || plaintext != confirmPassword {
		return nil, apperrors.ErrPasswordMismatch
	}
	if ok, reason := password.Validate(plaintext); !ok {
		return nil, apperrors.WithMessage(apperrors.ErrPasswordPolicy, reason)
	}
	if questionID == 0 || strings.TrimSpace(answer) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Security question and answer are required")
	}

	request := ctx.Request
	now := time.Now()

	passwordHash, err := password.Hash(plaintext)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	answerHash, err := password.Hash(strings.TrimSpace(answer))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	expiresAt := now.AddDate(0, 0, passwordValidDays)
	dob := request.DOB
	user := &models.User{
		Email:             request.Email,
		PasswordHash:      passwordHash,
		FirstName:         request.FirstName,
		LastName:          request.LastName,
		DOB:               &dob,
		Address:           request.Address,
		RoleID:            models.RoleAccountant,
		IsActive:          true,
		PasswordExpiresAt: &expiresAt,
	}
	if err := s.createWithUniqueUsername(user, request.FirstName, request.LastName, now); err != nil {
		return nil, err
	}

	history := &models.PasswordHistory{
		UserID:       user.ID,
		PasswordHash: passwordHash,
		DateSet:      now,
	}
	if err := s.db.Create(history).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	security := &models.SecurityAnswer{
		UserID:     user.ID,
		QuestionID: questionID,
		AnswerHash: answerHash,
	}
	if err := s.db.Create(security).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Conditional update closes the single-use race as tightly as the store
	// allows: only one finalize can flip used_at from NULL.
	res := s.db.Model(&models.SignupInvitation{}).
		Where("token = ? AND used_at IS NULL", token).
		Update("used_at", now)
	if res.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.ErrTokenUsed
	}

	return &SignupResult{UserID: user.ID, Username: user.Username}, nil
}

// createWithUniqueUsername inserts the user with a deterministically
// generated username, probing sequential numeric suffixes until the store's
// unique index accepts one. Uniqueness is enforced at write time, not by a
// prior read.
func (s *registrationService) createWithUniqueUsername(user *models.User, firstName, lastName string, createdAt time.Time) error {
	base := usernameBase(firstName, lastName, createdAt)
	candidate := base
	suffix := 1

	for {
		user.ID = 0
		user.Username = candidate
		err := s.db.Create(user).Error
		if err == nil {
			return nil
		}
		if isUniqueConstraintError(err) {
			suffix++
			candidate = fmt.Sprintf("%s%d", base, suffix)
			continue
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
}

// usernameBase builds "<first initial><last name><MMYY>", lowercased and
// stripped to letters only.
func usernameBase(firstName, lastName string, createdAt time.Time) string {
	first := alphaOnly(strings.ToLower(firstName))
	last := alphaOnly(strings.ToLower(lastName))
	initial := ""
	if first != "" {
		initial = first[:1]
	}
	return fmt.Sprintf("%s%s%s", initial, last, createdAt.Format("0106"))
}

// alphaOnly strips everything but ASCII letters.
func alphaOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// generateToken returns an unguessable URL-safe invitation token.
func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// age returns full years between birthDate and now.
func age(birthDate, now time.Time) int {
	years := now.Year() - birthDate.Year()
	anniversary := birthDate.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}

// notifyAdmins emails every active administrator about a new registration
// request. Failures are logged and never surfaced to the applicant.
func (s *registrationService) notifyAdmins(request *models.RegistrationRequest) {
	var admins []models.User
	err := s.db.Where("role_id = ? AND is_active = ?", models.RoleAdministrator, true).Find(&admins).Error
	if err != nil {
		logger.Get().Warnw("failed to load administrators for notification", "error", err)
		return
	}

	fullName := strings.TrimSpace(request.FirstName + " " + request.LastName)
	body := fmt.Sprintf(`
		<p>A new user has submitted a registration request and is awaiting approval.</p>
		<p><strong>Name:</strong> %s<br><strong>Email:</strong> %s</p>
		<p>Please log into the FinKen admin panel to review this request.</p>
	`, fullName, request.Email)

	for _, admin := range admins {
		if admin.Email == "" {
			continue
		}
		if err := s.mailer.Send("", "FinKen System", admin.Email, "New User Registration Request", body); err != nil {
			logger.Get().Warnw("failed to notify administrator",
				"admin_email", admin.Email,
				"error", err,
			)
		}
	}
}
