package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "finken/internal/errors"
	"finken/internal/models"
	"finken/internal/pagination"
)

// chartService maintains the chart of accounts and serves ledger reads.
type chartService struct {
	db    *gorm.DB
	audit AuditServicer
}

// NewChartService creates a new ChartServicer.
func NewChartService(db *gorm.DB, audit AuditServicer) ChartServicer {
	return &chartService{db: db, audit: audit}
}

// AddAccount creates a chart-of-accounts entry. Account numbers are
// digits-only and must carry the category's required prefix; number and name
// are both unique.
func (s *chartService) AddAccount(actorID uint, input ChartAccountInput) (*models.ChartAccount, error) {
	name := strings.TrimSpace(input.AccountName)
	number := strings.TrimSpace(input.AccountNumber)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Account name is required")
	}
	if number == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Account number is required")
	}
	if !digitsOnly(number) {
		return nil, apperrors.ErrInvalidAccountCode
	}
	if prefix := models.CategoryPrefix(input.Category); prefix != "" && !strings.HasPrefix(number, prefix) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
			"Account numbers in the "+string(input.Category)+" category must start with "+prefix)
	}

	balance := input.Balance
	if balance == 0 {
		balance = input.InitialBalance
	}

	account := &models.ChartAccount{
		AccountName:    name,
		AccountNumber:  number,
		Description:    input.Description,
		NormalSide:     input.NormalSide,
		Category:       input.Category,
		Subcategory:    input.Subcategory,
		InitialBalance: input.InitialBalance,
		Debit:          input.Debit,
		Credit:         input.Credit,
		Balance:        balance,
		OrderValue:     input.OrderValue,
		Statement:      input.Statement,
		Comment:        input.Comment,
		IsActive:       true,
		CreatedByID:    actorID,
	}

	// The unique indexes on number and name are the authority; a prior
	// read-check would still race.
	if err := s.db.Create(account).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.ErrDuplicateAccount
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.audit.Log(actorID, "INSERT", "chart_accounts", account.ID, nil, map[string]interface{}{
		"account_number": number, "account_name": name, "category": input.Category,
	})
	return account, nil
}

// GetAccountByID returns a single chart account.
func (s *chartService) GetAccountByID(accountID uint) (*models.ChartAccount, error) {
	var account models.ChartAccount
	if err := s.db.First(&account, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// allowedAccountUpdates are the columns an update may touch.
var allowedAccountUpdates = map[string]bool{
	"account_name": true, "description": true, "normal_side": true,
	"category": true, "subcategory": true, "order_value": true,
	"statement": true, "comment": true, "is_active": true,
	"debit": true, "credit": true, "balance": true,
}

// UpdateAccount applies a whitelisted set of changes and event-logs the
// before/after snapshot.
func (s *chartService) UpdateAccount(actorID, accountID uint, changes map[string]interface{}) (*models.ChartAccount, error) {
	account, err := s.GetAccountByID(accountID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	for column, value := range changes {
		if allowedAccountUpdates[column] {
			updates[column] = value
		}
	}
	if len(updates) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "No updatable fields provided")
	}

	before := map[string]interface{}{
		"account_name": account.AccountName, "description": account.Description,
		"category": account.Category, "balance": account.Balance, "is_active": account.IsActive,
	}

	if err := s.db.Model(account).Updates(updates).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.ErrDuplicateAccount
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.audit.Log(actorID, "UPDATE", "chart_accounts", accountID, before, updates)
	return s.GetAccountByID(accountID)
}

// DeactivateAccount retires an account. Accounts carrying a balance must be
// zeroed out first.
func (s *chartService) DeactivateAccount(actorID, accountID uint) error {
	account, err := s.GetAccountByID(accountID)
	if err != nil {
		return err
	}
	if account.Balance != 0 {
		return apperrors.ErrAccountHasBalance
	}
	if !account.IsActive {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Account is already deactivated")
	}

	if err := s.db.Model(account).Update("is_active", false).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.audit.Log(actorID, "DEACTIVATE", "chart_accounts", accountID, nil, nil)
	return nil
}

// ListAccounts returns a paginated chart-of-accounts listing ordered by
// account number, with optional search and filters.
func (s *chartService) ListAccounts(page pagination.PageRequest, searchTerm string, filter ChartAccountFilter) (*pagination.PageResponse[models.ChartAccount], error) {
	page.Defaults()

	base := s.db.Model(&models.ChartAccount{})
	if filter.Category != nil {
		base = base.Where("category = ?", *filter.Category)
	}
	if filter.IsActive != nil {
		base = base.Where("is_active = ?", *filter.IsActive)
	}
	if term := strings.TrimSpace(searchTerm); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		base = base.Where("lower(account_name) LIKE ? OR account_number LIKE ?", pattern, pattern)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var accounts []models.ChartAccount
	if err := base.Order("account_number ASC").Scopes(pagination.Paginate(page)).Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(accounts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetLedgerEntries returns ledger lines for an account number, oldest first.
// The ledger lives in its own table; there is no fallback probing of
// alternate table names.
func (s *chartService) GetLedgerEntries(accountNumber string, limit int) ([]models.LedgerEntry, error) {
	if limit <= 0 {
		limit = 200
	}

	var entries []models.LedgerEntry
	err := s.db.Where("account_number = ?", accountNumber).
		Order("date ASC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entries, nil
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
