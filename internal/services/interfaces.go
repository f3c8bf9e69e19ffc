package services

import (
	"time"

	"finken/internal/models"
	"finken/internal/pagination"
)

// Mailer sends a single HTML email. Implemented by the SendGrid client in
// internal/email; tests substitute a fake.
type Mailer interface {
	Send(replyToEmail, senderName, to, subject, htmlBody string) error
}

// SignupContext is the data a signup form needs after a token is validated.
type SignupContext struct {
	Request   *models.RegistrationRequest `json:"request"`
	Questions []models.SecurityQuestion   `json:"security_questions"`
}

// SignupResult is returned when a signup invitation is successfully redeemed.
type SignupResult struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

// RegistrationServicer covers the registration request lifecycle: public
// submission, admin review, and invitation redemption.
type RegistrationServicer interface {
	SubmitRequest(firstName, lastName, email, dob string) (*models.RegistrationRequest, error)
	GetRequestByID(requestID uint) (*models.RegistrationRequest, error)
	ListRequests(page pagination.PageRequest, searchTerm string, status models.RequestStatus) (*pagination.PageResponse[models.RegistrationRequest], error)
	Approve(requestID, reviewerID uint, ttl time.Duration) error
	Reject(requestID, reviewerID uint, reason string) error
	GetSignupContext(token string) (*SignupContext, error)
	FinalizeSignup(token, password, confirmPassword string, questionID uint, answer string) (*SignupResult, error)
}

// SignInResult is the sanitized account summary returned on successful
// authentication. It never carries the password hash.
type SignInResult struct {
	UserID    uint   `json:"user_id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
}

// AuthServicer verifies submitted credentials at sign-in time.
type AuthServicer interface {
	SignIn(username, plaintext string) (*SignInResult, error)
}

// ResetServicer covers the security-question password reset flow.
type ResetServicer interface {
	FindUser(email, username string) (uint, error)
	VerifySecurityAnswer(userID uint, answer string) error
	ChangePassword(userID uint, newPassword string) error
}

// UpdateUserInput holds optional admin edits to a user record. Nil fields are
// left unchanged.
type UpdateUserInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Address   *string
	RoleID    *uint
	IsActive  *bool
}

// UserAdminServicer covers administrator-facing user management.
type UserAdminServicer interface {
	GetUserByID(userID uint) (*models.User, error)
	ListUsers(page pagination.PageRequest, searchTerm, statusFilter string) (*pagination.PageResponse[models.User], error)
	UpdateUser(userID uint, actorID uint, input UpdateUserInput) (*models.User, error)
	SuspendUser(userID, adminID uint, endDate time.Time, reason string) error
	UnsuspendUser(userID uint, adminID uint) error
	SetProfilePicture(userID uint, fileName string) error
	AutoUnsuspend() (int, error)
	GetExpiringPasswords(daysAhead int, showAll bool) ([]models.User, error)
}

// ChartAccountInput holds the fields accepted when creating or updating a
// chart-of-accounts entry. Monetary amounts are in cents.
type ChartAccountInput struct {
	AccountName    string
	AccountNumber  string
	Description    string
	NormalSide     models.NormalSide
	Category       models.AccountCategory
	Subcategory    string
	InitialBalance int64
	Debit          int64
	Credit         int64
	Balance        int64
	OrderValue     int
	Statement      string
	Comment        string
}

// ChartAccountFilter holds optional filters for listing chart accounts.
type ChartAccountFilter struct {
	Category *models.AccountCategory
	IsActive *bool
}

// ChartServicer covers chart-of-accounts maintenance and ledger reads.
type ChartServicer interface {
	AddAccount(actorID uint, input ChartAccountInput) (*models.ChartAccount, error)
	GetAccountByID(accountID uint) (*models.ChartAccount, error)
	UpdateAccount(actorID, accountID uint, changes map[string]interface{}) (*models.ChartAccount, error)
	DeactivateAccount(actorID, accountID uint) error
	ListAccounts(page pagination.PageRequest, searchTerm string, filter ChartAccountFilter) (*pagination.PageResponse[models.ChartAccount], error)
	GetLedgerEntries(accountNumber string, limit int) ([]models.LedgerEntry, error)
}

// AuditServicer records before/after snapshots of sensitive changes. The
// acting user is always passed explicitly; there is no ambient "current user".
type AuditServicer interface {
	Log(actorID uint, actionType, tableName string, recordID uint, before, after map[string]interface{})
}
