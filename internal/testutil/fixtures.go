package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"finken/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// TestPassword is the plaintext password used by all user fixtures.
const TestPassword = "Secret1!"

// SeedRoles creates the role catalog if it is not already present.
func SeedRoles(t *testing.T, db *gorm.DB) {
	t.Helper()

	roles := []models.Role{
		{ID: models.RoleAdministrator, Name: "administrator"},
		{ID: models.RoleManager, Name: "manager"},
		{ID: models.RoleAccountant, Name: "accountant"},
	}
	for i := range roles {
		if err := db.FirstOrCreate(&roles[i], models.Role{ID: roles[i].ID}).Error; err != nil {
			t.Fatalf("failed to seed roles: %v", err)
		}
	}
}

// SeedSecurityQuestions creates a small question catalog and returns it.
func SeedSecurityQuestions(t *testing.T, db *gorm.DB) []models.SecurityQuestion {
	t.Helper()

	questions := []models.SecurityQuestion{
		{QuestionText: fmt.Sprintf("What was the name of your first pet? (%d)", nextID())},
		{QuestionText: fmt.Sprintf("In what city were you born? (%d)", nextID())},
	}
	for i := range questions {
		if err := db.Create(&questions[i]).Error; err != nil {
			t.Fatalf("failed to seed security questions: %v", err)
		}
	}
	return questions
}

// CreateTestUser creates an active accountant with a hashed password and
// unique username.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return createUser(t, db, models.RoleAccountant)
}

// CreateTestAdmin creates an active administrator.
func CreateTestAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return createUser(t, db, models.RoleAdministrator)
}

func createUser(t *testing.T, db *gorm.DB, roleID uint) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	n := nextID()
	expires := time.Now().AddDate(0, 0, 90)
	user := &models.User{
		Username:          fmt.Sprintf("testuser%d", n),
		Email:             fmt.Sprintf("user%d@test.com", n),
		PasswordHash:      string(hash),
		FirstName:         "Test",
		LastName:          fmt.Sprintf("User%d", n),
		RoleID:            roleID,
		IsActive:          true,
		PasswordExpiresAt: &expires,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestRequest creates a pending registration request.
func CreateTestRequest(t *testing.T, db *gorm.DB) *models.RegistrationRequest {
	t.Helper()

	n := nextID()
	request := &models.RegistrationRequest{
		FirstName: "Jane",
		LastName:  fmt.Sprintf("Doe%d", n),
		Email:     fmt.Sprintf("applicant%d@test.com", n),
		DOB:       time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC),
		Status:    models.StatusPending,
	}
	if err := db.Create(request).Error; err != nil {
		t.Fatalf("failed to create test registration request: %v", err)
	}
	return request
}

// CreateTestInvitation creates a signup invitation for the given request with
// the given expiry.
func CreateTestInvitation(t *testing.T, db *gorm.DB, requestID uint, expiresAt time.Time) *models.SignupInvitation {
	t.Helper()

	invitation := &models.SignupInvitation{
		RequestID: requestID,
		Token:     fmt.Sprintf("test-token-%d", nextID()),
		ExpiresAt: expiresAt,
	}
	if err := db.Create(invitation).Error; err != nil {
		t.Fatalf("failed to create test invitation: %v", err)
	}
	return invitation
}

// CreateTestChartAccount creates an active asset account with a unique number.
func CreateTestChartAccount(t *testing.T, db *gorm.DB, createdByID uint) *models.ChartAccount {
	t.Helper()

	n := nextID()
	account := &models.ChartAccount{
		AccountNumber: fmt.Sprintf("01%04d", n),
		AccountName:   fmt.Sprintf("Test Cash %d", n),
		NormalSide:    models.NormalSideDebit,
		Category:      models.CategoryAsset,
		IsActive:      true,
		CreatedByID:   createdByID,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test chart account: %v", err)
	}
	return account
}
