package services

import (
	"testing"
	"time"

	"finken/internal/models"
	"finken/internal/pagination"
	"finken/internal/testutil"
)

func TestAddAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	admin := testutil.CreateTestAdmin(t, db)
	svc := NewChartService(db, NewAuditService(db))

	t.Run("creates account and event log", func(t *testing.T) {
		account, err := svc.AddAccount(admin.ID, ChartAccountInput{
			AccountName:    "Cash on Hand",
			AccountNumber:  "011000",
			NormalSide:     models.NormalSideDebit,
			Category:       models.CategoryAsset,
			InitialBalance: 50000,
		})
		testutil.AssertNoError(t, err)

		if !account.IsActive {
			t.Error("expected new accounts to start active")
		}
		if account.Balance != 50000 {
			t.Errorf("expected balance to default to the initial balance, got %d", account.Balance)
		}

		var logCount int64
		db.Model(&models.EventLog{}).
			Where("table_name = ? AND record_id = ? AND action_type = ?", "chart_accounts", account.ID, "INSERT").
			Count(&logCount)
		if logCount != 1 {
			t.Errorf("expected 1 event log entry, got %d", logCount)
		}
	})

	t.Run("duplicate number", func(t *testing.T) {
		existing := testutil.CreateTestChartAccount(t, db, admin.ID)

		_, err := svc.AddAccount(admin.ID, ChartAccountInput{
			AccountName:   "Another Name",
			AccountNumber: existing.AccountNumber,
			NormalSide:    models.NormalSideDebit,
			Category:      models.CategoryAsset,
		})
		testutil.AssertAppError(t, err, "DUPLICATE_ACCOUNT")
	})

	t.Run("duplicate name", func(t *testing.T) {
		existing := testutil.CreateTestChartAccount(t, db, admin.ID)

		_, err := svc.AddAccount(admin.ID, ChartAccountInput{
			AccountName:   existing.AccountName,
			AccountNumber: "019999",
			NormalSide:    models.NormalSideDebit,
			Category:      models.CategoryAsset,
		})
		testutil.AssertAppError(t, err, "DUPLICATE_ACCOUNT")
	})

	t.Run("number must be digits only", func(t *testing.T) {
		_, err := svc.AddAccount(admin.ID, ChartAccountInput{
			AccountName:   "Decimals",
			AccountNumber: "01.50",
			NormalSide:    models.NormalSideDebit,
			Category:      models.CategoryAsset,
		})
		testutil.AssertAppError(t, err, "INVALID_ACCOUNT_NUMBER")
	})

	t.Run("number must carry the category prefix", func(t *testing.T) {
		_, err := svc.AddAccount(admin.ID, ChartAccountInput{
			AccountName:   "Misfiled Liability",
			AccountNumber: "015000",
			NormalSide:    models.NormalSideCredit,
			Category:      models.CategoryLiability,
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := svc.AddAccount(admin.ID, ChartAccountInput{
			AccountNumber: "012000",
			NormalSide:    models.NormalSideDebit,
			Category:      models.CategoryAsset,
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestUpdateAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	admin := testutil.CreateTestAdmin(t, db)
	svc := NewChartService(db, NewAuditService(db))

	t.Run("applies whitelisted changes", func(t *testing.T) {
		account := testutil.CreateTestChartAccount(t, db, admin.ID)

		updated, err := svc.UpdateAccount(admin.ID, account.ID, map[string]interface{}{
			"description":    "Petty cash drawer",
			"account_number": "020000", // not whitelisted, must be ignored
		})
		testutil.AssertNoError(t, err)

		if updated.Description != "Petty cash drawer" {
			t.Errorf("expected description to change, got %q", updated.Description)
		}
		if updated.AccountNumber != account.AccountNumber {
			t.Error("expected the account number to be immutable")
		}
	})

	t.Run("no updatable fields", func(t *testing.T) {
		account := testutil.CreateTestChartAccount(t, db, admin.ID)

		_, err := svc.UpdateAccount(admin.ID, account.ID, map[string]interface{}{
			"account_number": "020000",
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := svc.UpdateAccount(admin.ID, 999999, map[string]interface{}{"comment": "x"})
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})
}

func TestDeactivateAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	admin := testutil.CreateTestAdmin(t, db)
	svc := NewChartService(db, NewAuditService(db))

	t.Run("deactivates zero-balance account", func(t *testing.T) {
		account := testutil.CreateTestChartAccount(t, db, admin.ID)

		testutil.AssertNoError(t, svc.DeactivateAccount(admin.ID, account.ID))

		var updated models.ChartAccount
		testutil.AssertNoError(t, db.First(&updated, account.ID).Error)
		if updated.IsActive {
			t.Error("expected the account to be inactive")
		}
	})

	t.Run("refuses nonzero balance", func(t *testing.T) {
		account := testutil.CreateTestChartAccount(t, db, admin.ID)
		testutil.AssertNoError(t, db.Model(account).Update("balance", 1250).Error)

		err := svc.DeactivateAccount(admin.ID, account.ID)
		testutil.AssertAppError(t, err, "ACCOUNT_HAS_BALANCE")
	})

	t.Run("already deactivated", func(t *testing.T) {
		account := testutil.CreateTestChartAccount(t, db, admin.ID)
		testutil.AssertNoError(t, svc.DeactivateAccount(admin.ID, account.ID))

		err := svc.DeactivateAccount(admin.ID, account.ID)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestListAccounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	admin := testutil.CreateTestAdmin(t, db)
	svc := NewChartService(db, NewAuditService(db))

	a1 := testutil.CreateTestChartAccount(t, db, admin.ID)
	a2 := testutil.CreateTestChartAccount(t, db, admin.ID)
	testutil.AssertNoError(t, db.Model(a2).Update("is_active", false).Error)

	t.Run("filters by active state", func(t *testing.T) {
		active := true
		resp, err := svc.ListAccounts(pagination.PageRequest{}, "", ChartAccountFilter{IsActive: &active})
		testutil.AssertNoError(t, err)

		for _, account := range resp.Data {
			if !account.IsActive {
				t.Errorf("expected only active accounts, got %s", account.AccountNumber)
			}
		}
		if resp.TotalItems < 1 {
			t.Error("expected at least one active account")
		}
	})

	t.Run("searches by name", func(t *testing.T) {
		resp, err := svc.ListAccounts(pagination.PageRequest{}, a1.AccountName, ChartAccountFilter{})
		testutil.AssertNoError(t, err)

		if resp.TotalItems != 1 {
			t.Errorf("expected exactly one match, got %d", resp.TotalItems)
		}
	})

	t.Run("orders by account number", func(t *testing.T) {
		resp, err := svc.ListAccounts(pagination.PageRequest{}, "", ChartAccountFilter{})
		testutil.AssertNoError(t, err)

		for i := 1; i < len(resp.Data); i++ {
			if resp.Data[i-1].AccountNumber > resp.Data[i].AccountNumber {
				t.Fatal("expected accounts ordered by account number")
			}
		}
	})
}

func TestGetLedgerEntries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	admin := testutil.CreateTestAdmin(t, db)
	svc := NewChartService(db, NewAuditService(db))
	account := testutil.CreateTestChartAccount(t, db, admin.ID)

	older := models.LedgerEntry{AccountNumber: account.AccountNumber, Date: time.Now().Add(-48 * time.Hour), Description: "opening", Debit: 1000}
	newer := models.LedgerEntry{AccountNumber: account.AccountNumber, Date: time.Now(), Description: "purchase", Credit: 250}
	testutil.AssertNoError(t, db.Create(&newer).Error)
	testutil.AssertNoError(t, db.Create(&older).Error)

	t.Run("returns entries oldest first", func(t *testing.T) {
		entries, err := svc.GetLedgerEntries(account.AccountNumber, 0)
		testutil.AssertNoError(t, err)

		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[0].Description != "opening" {
			t.Error("expected the oldest entry first")
		}
	})

	t.Run("respects the limit", func(t *testing.T) {
		entries, err := svc.GetLedgerEntries(account.AccountNumber, 1)
		testutil.AssertNoError(t, err)

		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}
	})

	t.Run("unknown account number is empty", func(t *testing.T) {
		entries, err := svc.GetLedgerEntries("999999", 0)
		testutil.AssertNoError(t, err)

		if len(entries) != 0 {
			t.Errorf("expected no entries, got %d", len(entries))
		}
	})
}
