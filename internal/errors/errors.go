// Package errors provides custom error types for the FinKen API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication errors. Credential failures share one deliberately vague
// message so callers cannot probe which usernames exist; account state
// (inactive, suspended) is only disclosed after the username resolves.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid username or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrAccountInactive    = &AppError{Code: "ACCOUNT_INACTIVE", Message: "Account is deactivated. Please contact an administrator.", StatusCode: http.StatusForbidden}
	ErrAccountSuspended   = &AppError{Code: "ACCOUNT_SUSPENDED", Message: "Account is suspended. Please contact an administrator.", StatusCode: http.StatusForbidden}
	ErrAccountLockedOut   = &AppError{Code: "ACCOUNT_LOCKED_OUT", Message: "Account suspended due to too many failed login attempts. Please contact an administrator.", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Registration and invitation errors.
var (
	ErrRequestNotFound  = &AppError{Code: "REQUEST_NOT_FOUND", Message: "Registration request not found", StatusCode: http.StatusNotFound}
	ErrAlreadyProcessed = &AppError{Code: "ALREADY_PROCESSED", Message: "Registration request is already processed", StatusCode: http.StatusConflict}
	ErrInvalidToken     = &AppError{Code: "INVALID_TOKEN", Message: "Invalid signup link", StatusCode: http.StatusNotFound}
	ErrTokenUsed        = &AppError{Code: "TOKEN_USED", Message: "This signup link was already used", StatusCode: http.StatusConflict}
	ErrTokenExpired     = &AppError{Code: "TOKEN_EXPIRED", Message: "This signup link has expired", StatusCode: http.StatusConflict}
	ErrNotApprovable    = &AppError{Code: "NOT_APPROVABLE", Message: "Registration is not in an approvable state", StatusCode: http.StatusConflict}
	ErrEmailFailed      = &AppError{Code: "EMAIL_FAILED", Message: "Invitation created but the email could not be sent", StatusCode: http.StatusBadGateway}
)

// Password errors.
var (
	ErrPasswordMismatch = &AppError{Code: "PASSWORD_MISMATCH", Message: "Passwords do not match", StatusCode: http.StatusBadRequest}
	ErrPasswordPolicy   = &AppError{Code: "PASSWORD_POLICY", Message: "Password does not meet policy requirements", StatusCode: http.StatusBadRequest}
	ErrPasswordReused   = &AppError{Code: "PASSWORD_REUSED", Message: "New password cannot be the same as a previous password", StatusCode: http.StatusConflict}
)

// Password-reset errors. User lookup failures are intentionally generic.
var (
	ErrUserNotFound     = &AppError{Code: "USER_NOT_FOUND", Message: "No matching user found", StatusCode: http.StatusNotFound}
	ErrNoSecurityAnswer = &AppError{Code: "NO_SECURITY_ANSWER", Message: "No security question found for this user", StatusCode: http.StatusNotFound}
	ErrWrongAnswer      = &AppError{Code: "WRONG_ANSWER", Message: "Incorrect answer to security question", StatusCode: http.StatusUnauthorized}
)

// Chart-of-accounts errors.
var (
	ErrAccountNotFound    = &AppError{Code: "ACCOUNT_NOT_FOUND", Message: "Account not found", StatusCode: http.StatusNotFound}
	ErrDuplicateAccount   = &AppError{Code: "DUPLICATE_ACCOUNT", Message: "Duplicate account number or name not allowed", StatusCode: http.StatusConflict}
	ErrAccountHasBalance  = &AppError{Code: "ACCOUNT_HAS_BALANCE", Message: "Accounts with a non-zero balance cannot be deactivated", StatusCode: http.StatusConflict}
	ErrInvalidAccountCode = &AppError{Code: "INVALID_ACCOUNT_NUMBER", Message: "Account number must be digits only", StatusCode: http.StatusBadRequest}
)
