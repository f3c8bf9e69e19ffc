package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestAccountFlow_CreateUpdateDeactivate(t *testing.T) {
	app := setupApp(t)
	token := app.adminToken(t)

	// Create an asset account
	rec := app.request("POST", "/api/v1/accounts",
		`{"account_name":"Cash on Hand","account_number":"011000","normal_side":"Debit","category":"Asset","initial_balance":50000}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	account := parseJSON(t, rec)
	accountID := account["id"].(float64)
	if account["balance"].(float64) != 50000 {
		t.Errorf("expected balance 50000, got %v", account["balance"])
	}

	// Duplicate number is rejected
	rec = app.request("POST", "/api/v1/accounts",
		`{"account_name":"Duplicate Cash","account_number":"011000","normal_side":"Debit","category":"Asset"}`, token)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for a duplicate number, got %d: %s", rec.Code, rec.Body.String())
	}

	// Category prefix is enforced
	rec = app.request("POST", "/api/v1/accounts",
		`{"account_name":"Misfiled","account_number":"019000","normal_side":"Credit","category":"Liability"}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a wrong prefix, got %d: %s", rec.Code, rec.Body.String())
	}

	// Update the description
	rec = app.request("PUT", fmt.Sprintf("/api/v1/accounts/%.0f", accountID),
		`{"description":"Petty cash drawer"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("update failed: %d %s", rec.Code, rec.Body.String())
	}
	if parseJSON(t, rec)["description"] != "Petty cash drawer" {
		t.Error("expected the description to change")
	}

	// A non-zero balance blocks deactivation
	rec = app.request("DELETE", fmt.Sprintf("/api/v1/accounts/%.0f", accountID), "", token)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for a funded account, got %d: %s", rec.Code, rec.Body.String())
	}

	// Zero the balance, then deactivate
	rec = app.request("PUT", fmt.Sprintf("/api/v1/accounts/%.0f", accountID), `{"balance":0}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("balance update failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = app.request("DELETE", fmt.Sprintf("/api/v1/accounts/%.0f", accountID), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("deactivate failed: %d %s", rec.Code, rec.Body.String())
	}

	// The listing reflects the inactive state
	rec = app.request("GET", "/api/v1/accounts?is_active=false", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list failed: %d %s", rec.Code, rec.Body.String())
	}
	listing := parseJSON(t, rec)
	if listing["total_items"].(float64) != 1 {
		t.Errorf("expected 1 inactive account, got %v", listing["total_items"])
	}
}

func TestAccountFlow_RequiresAuthentication(t *testing.T) {
	app := setupApp(t)

	rec := app.request("GET", "/api/v1/accounts", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", rec.Code)
	}
}
