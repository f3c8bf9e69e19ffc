package integration

import (
	"fmt"
	"net/http"
	"testing"

	"finken/internal/testutil"
)

func TestAuthFlow_LockoutAndAdminUnsuspend(t *testing.T) {
	app := setupApp(t)
	adminToken := app.adminToken(t)

	user := testutil.CreateTestUser(t, app.DB)
	badBody := fmt.Sprintf(`{"username":%q,"password":"WrongPass1!"}`, user.Username)

	// Two failures return the generic credential error
	for i := 0; i < 2; i++ {
		rec := app.request("POST", "/api/v1/auth/signin", badBody, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 on attempt %d, got %d", i+1, rec.Code)
		}
	}

	// The third failure locks the account
	rec := app.request("POST", "/api/v1/auth/signin", badBody, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 on the third failure, got %d: %s", rec.Code, rec.Body.String())
	}

	// Even the correct password is refused while suspended
	goodBody := fmt.Sprintf(`{"username":%q,"password":%q}`, user.Username, testutil.TestPassword)
	rec = app.request("POST", "/api/v1/auth/signin", goodBody, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 while suspended, got %d: %s", rec.Code, rec.Body.String())
	}

	// An admin lifts the suspension and the user can sign in again
	rec = app.request("POST", fmt.Sprintf("/api/v1/admin/users/%d/unsuspend", user.ID), "", adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("unsuspend failed: %d %s", rec.Code, rec.Body.String())
	}

	app.signIn(t, user.Username, testutil.TestPassword)
}

func TestResetFlow_SecurityQuestionPasswordReset(t *testing.T) {
	app := setupApp(t)
	adminToken := app.adminToken(t)

	// Build a user through the signup flow so a security answer exists
	rec := app.request("POST", "/api/v1/auth/register",
		`{"first_name":"Reset","last_name":"Person","email":"reset@example.com","dob":"1991-02-02"}`, "")
	requestID := parseJSON(t, rec)["request_id"].(float64)
	app.request("POST", fmt.Sprintf("/api/v1/admin/requests/%.0f/approve", requestID), "", adminToken)

	match := tokenPattern.FindStringSubmatch(app.Mailer.LastSent().HTMLBody)
	if match == nil {
		t.Fatal("expected a signup link")
	}
	body := fmt.Sprintf(`{"token":%q,"password":"Secret1!","confirm_password":"Secret1!","question_id":%d,"answer":"Rex"}`,
		match[1], app.Questions[0].ID)
	rec = app.request("POST", "/api/v1/signup", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("finalize failed: %d %s", rec.Code, rec.Body.String())
	}
	username := parseJSON(t, rec)["username"].(string)

	// Step 1: find the user by email and username
	rec = app.request("POST", "/api/v1/auth/forgot-password/find",
		fmt.Sprintf(`{"email":"reset@example.com","username":%q}`, username), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("find failed: %d %s", rec.Code, rec.Body.String())
	}
	userID := parseJSON(t, rec)["user_id"].(float64)

	// A wrong answer is refused
	rec = app.request("POST", "/api/v1/auth/forgot-password/verify",
		fmt.Sprintf(`{"user_id":%.0f,"answer":"Fido"}`, userID), "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a wrong answer, got %d", rec.Code)
	}

	// Step 2: verify the security answer
	rec = app.request("POST", "/api/v1/auth/forgot-password/verify",
		fmt.Sprintf(`{"user_id":%.0f,"answer":"Rex"}`, userID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("verify failed: %d %s", rec.Code, rec.Body.String())
	}

	// Reusing the signup password is refused
	rec = app.request("POST", "/api/v1/auth/forgot-password/reset",
		fmt.Sprintf(`{"user_id":%.0f,"new_password":"Secret1!"}`, userID), "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for a reused password, got %d: %s", rec.Code, rec.Body.String())
	}

	// Step 3: set a fresh password and sign in with it
	rec = app.request("POST", "/api/v1/auth/forgot-password/reset",
		fmt.Sprintf(`{"user_id":%.0f,"new_password":"Fresher2!"}`, userID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("reset failed: %d %s", rec.Code, rec.Body.String())
	}

	app.signIn(t, username, "Fresher2!")

	// The old password no longer works
	rec = app.request("POST", "/api/v1/auth/signin",
		fmt.Sprintf(`{"username":%q,"password":"Secret1!"}`, username), "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with the old password, got %d", rec.Code)
	}
}
