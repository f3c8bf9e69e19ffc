package models

import "time"

// AccountCategory classifies a chart-of-accounts entry.
type AccountCategory string

const (
	CategoryAsset     AccountCategory = "Asset"
	CategoryLiability AccountCategory = "Liability"
	CategoryEquity    AccountCategory = "Equity"
	CategoryRevenue   AccountCategory = "Revenue"
	CategoryExpense   AccountCategory = "Expense"
)

// NormalSide is the side on which an account normally carries its balance.
type NormalSide string

const (
	NormalSideDebit  NormalSide = "Debit"
	NormalSideCredit NormalSide = "Credit"
)

// CategoryPrefix returns the required leading digits for account numbers in
// the given category, or "" when the category carries no prefix rule.
func CategoryPrefix(category AccountCategory) string {
	switch category {
	case CategoryAsset:
		return "01"
	case CategoryLiability:
		return "02"
	case CategoryEquity:
		return "03"
	case CategoryRevenue:
		return "04"
	case CategoryExpense:
		return "05"
	}
	return ""
}

// ChartAccount is a chart-of-accounts entry. Monetary values are stored in
// cents to avoid floating point issues.
type ChartAccount struct {
	Base
	AccountNumber  string          `gorm:"uniqueIndex;not null" json:"account_number"`
	AccountName    string          `gorm:"uniqueIndex;not null" json:"account_name"`
	Description    string          `json:"description,omitempty"`
	NormalSide     NormalSide      `json:"normal_side"`
	Category       AccountCategory `gorm:"index" json:"category"`
	Subcategory    string          `json:"subcategory,omitempty"`
	InitialBalance int64           `gorm:"not null;default:0" json:"initial_balance"`
	Debit          int64           `gorm:"not null;default:0" json:"debit"`
	Credit         int64           `gorm:"not null;default:0" json:"credit"`
	Balance        int64           `gorm:"not null;default:0" json:"balance"`
	OrderValue     int             `json:"order,omitempty"`
	Statement      string          `json:"statement,omitempty"`
	Comment        string          `json:"comment,omitempty"`
	IsActive       bool            `gorm:"default:true" json:"is_active"`
	CreatedByID    uint            `json:"created_by_id,omitempty"`
}

// LedgerEntry is a single ledger line for a chart account.
type LedgerEntry struct {
	Base
	AccountNumber string    `gorm:"not null;index" json:"account_number"`
	Date          time.Time `gorm:"not null" json:"date"`
	Description   string    `json:"description"`
	Debit         int64     `gorm:"not null;default:0" json:"debit"`
	Credit        int64     `gorm:"not null;default:0" json:"credit"`
}
