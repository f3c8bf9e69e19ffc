package integration

import (
	"fmt"
	"net/http"
	"regexp"
	"testing"
)

var tokenPattern = regexp.MustCompile(`FinishSignUp\?token=([A-Za-z0-9_-]+)`)

func TestSignupFlow_RegisterApproveFinalizeSignIn(t *testing.T) {
	app := setupApp(t)
	adminToken := app.adminToken(t)

	// Step 1: Applicant submits the public registration form
	rec := app.request("POST", "/api/v1/auth/register",
		`{"first_name":"Jane","last_name":"Doe","email":"jane.doe@example.com","dob":"1990-06-15"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	requestID := parseJSON(t, rec)["request_id"].(float64)

	// Step 2: Admin approves; the applicant is emailed a signup link
	rec = app.request("POST", fmt.Sprintf("/api/v1/admin/requests/%.0f/approve", requestID), "", adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("approve failed: %d %s", rec.Code, rec.Body.String())
	}

	sent := app.Mailer.LastSent()
	if sent == nil || sent.To != "jane.doe@example.com" {
		t.Fatal("expected a signup email to the applicant")
	}
	match := tokenPattern.FindStringSubmatch(sent.HTMLBody)
	if match == nil {
		t.Fatalf("expected a signup link in the email body: %s", sent.HTMLBody)
	}
	token := match[1]

	// Step 3: The signup link resolves to the form context
	rec = app.request("GET", "/api/v1/signup?token="+token, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("signup context failed: %d %s", rec.Code, rec.Body.String())
	}
	ctx := parseJSON(t, rec)
	if len(ctx["security_questions"].([]interface{})) == 0 {
		t.Fatal("expected security questions in the signup context")
	}

	// Step 4: Applicant completes signup
	body := fmt.Sprintf(`{"token":%q,"password":"Secret1!","confirm_password":"Secret1!","question_id":%d,"answer":"Rex"}`,
		token, app.Questions[0].ID)
	rec = app.request("POST", "/api/v1/signup", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("finalize failed: %d %s", rec.Code, rec.Body.String())
	}
	username := parseJSON(t, rec)["username"].(string)
	if username == "" {
		t.Fatal("expected a generated username")
	}

	// Step 5: The new account can sign in
	accessToken := app.signIn(t, username, "Secret1!")

	rec = app.request("GET", "/api/v1/profile", "", accessToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile failed: %d %s", rec.Code, rec.Body.String())
	}

	// Step 6: The signup link is single-use
	rec = app.request("GET", "/api/v1/signup?token="+token, "", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for a used token, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSignupFlow_RejectedRequestGetsNoInvitation(t *testing.T) {
	app := setupApp(t)
	adminToken := app.adminToken(t)

	rec := app.request("POST", "/api/v1/auth/register",
		`{"first_name":"John","last_name":"Smith","email":"john.smith@example.com","dob":"1985-01-01"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	requestID := parseJSON(t, rec)["request_id"].(float64)

	rec = app.request("POST", fmt.Sprintf("/api/v1/admin/requests/%.0f/reject", requestID),
		`{"reason":"Incomplete application"}`, adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("reject failed: %d %s", rec.Code, rec.Body.String())
	}

	// A second review attempt conflicts
	rec = app.request("POST", fmt.Sprintf("/api/v1/admin/requests/%.0f/approve", requestID), "", adminToken)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for a processed request, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSignupFlow_AdminRoutesRequireAdminRole(t *testing.T) {
	app := setupApp(t)
	adminToken := app.adminToken(t)

	// Build a regular accountant through the normal flow
	rec := app.request("POST", "/api/v1/auth/register",
		`{"first_name":"Alice","last_name":"Jones","email":"alice@example.com","dob":"1992-03-03"}`, "")
	requestID := parseJSON(t, rec)["request_id"].(float64)
	app.request("POST", fmt.Sprintf("/api/v1/admin/requests/%.0f/approve", requestID), "", adminToken)

	match := tokenPattern.FindStringSubmatch(app.Mailer.LastSent().HTMLBody)
	if match == nil {
		t.Fatal("expected a signup link")
	}
	body := fmt.Sprintf(`{"token":%q,"password":"Secret1!","confirm_password":"Secret1!","question_id":%d,"answer":"Rex"}`,
		match[1], app.Questions[0].ID)
	rec = app.request("POST", "/api/v1/signup", body, "")
	username := parseJSON(t, rec)["username"].(string)

	userToken := app.signIn(t, username, "Secret1!")

	rec = app.request("GET", "/api/v1/admin/requests", "", userToken)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a non-admin, got %d: %s", rec.Code, rec.Body.String())
	}
}
