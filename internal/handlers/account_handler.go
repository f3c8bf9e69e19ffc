package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "finken/internal/errors"
	"finken/internal/models"
	"finken/internal/pagination"
	"finken/internal/services"
)

// AccountHandler handles chart-of-accounts endpoints.
type AccountHandler struct {
	chartService services.ChartServicer
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(chartService services.ChartServicer) *AccountHandler {
	return &AccountHandler{chartService: chartService}
}

// CreateAccountRequest is the payload for adding a chart account. Monetary
// amounts are in cents.
type CreateAccountRequest struct {
	AccountName    string `json:"account_name" binding:"required,max=255"`
	AccountNumber  string `json:"account_number" binding:"required,account_number,max=20"`
	Description    string `json:"description" binding:"max=500"`
	NormalSide     string `json:"normal_side" binding:"required,normal_side"`
	Category       string `json:"category" binding:"required,account_category"`
	Subcategory    string `json:"subcategory" binding:"max=100"`
	InitialBalance int64  `json:"initial_balance"`
	Debit          int64  `json:"debit"`
	Credit         int64  `json:"credit"`
	Balance        int64  `json:"balance"`
	OrderValue     int    `json:"order"`
	Statement      string `json:"statement" binding:"max=50"`
	Comment        string `json:"comment" binding:"max=500"`
}

// UpdateAccountRequest holds editable chart account fields. Nil fields are
// left unchanged.
type UpdateAccountRequest struct {
	AccountName *string `json:"account_name" binding:"omitempty,max=255"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	NormalSide  *string `json:"normal_side" binding:"omitempty,normal_side"`
	Subcategory *string `json:"subcategory" binding:"omitempty,max=100"`
	Debit       *int64  `json:"debit"`
	Credit      *int64  `json:"credit"`
	Balance     *int64  `json:"balance"`
	OrderValue  *int    `json:"order"`
	Statement   *string `json:"statement" binding:"omitempty,max=50"`
	Comment     *string `json:"comment" binding:"omitempty,max=500"`
	IsActive    *bool   `json:"is_active"`
}

// CreateAccount adds a chart account
// @Summary     Create chart account
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateAccountRequest true "Account data"
// @Success     201 {object} models.ChartAccount
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Duplicate account"
// @Router      /accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.chartService.AddAccount(actorID, services.ChartAccountInput{
		AccountName:    req.AccountName,
		AccountNumber:  req.AccountNumber,
		Description:    req.Description,
		NormalSide:     models.NormalSide(req.NormalSide),
		Category:       models.AccountCategory(req.Category),
		Subcategory:    req.Subcategory,
		InitialBalance: req.InitialBalance,
		Debit:          req.Debit,
		Credit:         req.Credit,
		Balance:        req.Balance,
		OrderValue:     req.OrderValue,
		Statement:      req.Statement,
		Comment:        req.Comment,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, account)
}

// ListAccounts lists chart accounts
// @Summary     List chart accounts
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Param       search query string false "Search term"
// @Param       category query string false "Category filter" Enums(Asset, Liability, Equity, Revenue, Expense)
// @Param       is_active query bool false "Active filter"
// @Success     200 {object} pagination.PageResponse[models.ChartAccount]
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /accounts [get]
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	page.Defaults()

	var filter services.ChartAccountFilter
	if raw := c.Query("category"); raw != "" {
		category := models.AccountCategory(raw)
		filter.Category = &category
	}
	if raw := c.Query("is_active"); raw != "" {
		isActive, err := strconv.ParseBool(raw)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "is_active must be a boolean"))
			return
		}
		filter.IsActive = &isActive
	}

	resp, err := h.chartService.ListAccounts(page, c.Query("search"), filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetAccount returns a single chart account
// @Summary     Get chart account
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Account ID"
// @Success     200 {object} models.ChartAccount
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /accounts/{id} [get]
func (h *AccountHandler) GetAccount(c *gin.Context) {
	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.chartService.GetAccountByID(accountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

// UpdateAccount edits a chart account
// @Summary     Update chart account
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Account ID"
// @Param       request body UpdateAccountRequest true "Fields to update"
// @Success     200 {object} models.ChartAccount
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /accounts/{id} [put]
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	actorID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	changes := map[string]interface{}{}
	if req.AccountName != nil {
		changes["account_name"] = *req.AccountName
	}
	if req.Description != nil {
		changes["description"] = *req.Description
	}
	if req.NormalSide != nil {
		changes["normal_side"] = *req.NormalSide
	}
	if req.Subcategory != nil {
		changes["subcategory"] = *req.Subcategory
	}
	if req.Debit != nil {
		changes["debit"] = *req.Debit
	}
	if req.Credit != nil {
		changes["credit"] = *req.Credit
	}
	if req.Balance != nil {
		changes["balance"] = *req.Balance
	}
	if req.OrderValue != nil {
		changes["order_value"] = *req.OrderValue
	}
	if req.Statement != nil {
		changes["statement"] = *req.Statement
	}
	if req.Comment != nil {
		changes["comment"] = *req.Comment
	}
	if req.IsActive != nil {
		changes["is_active"] = *req.IsActive
	}

	account, err := h.chartService.UpdateAccount(actorID, accountID, changes)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

// DeactivateAccount deactivates a chart account
// @Summary     Deactivate chart account
// @Description Deactivate an account. Accounts with a nonzero balance cannot be deactivated.
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Account ID"
// @Success     200 {object} map[string]interface{} "Account deactivated"
// @Failure     409 {object} ErrorResponse "Account has a balance"
// @Router      /accounts/{id} [delete]
func (h *AccountHandler) DeactivateAccount(c *gin.Context) {
	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	actorID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.chartService.DeactivateAccount(actorID, accountID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deactivated"})
}

// GetLedger returns ledger entries for an account
// @Summary     Get account ledger
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       number path string true "Account number"
// @Param       limit query int false "Maximum entries" default(200)
// @Success     200 {object} map[string]interface{} "Ledger entries"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /ledger/{number} [get]
func (h *AccountHandler) GetLedger(c *gin.Context) {
	accountNumber := c.Param("number")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	entries, err := h.chartService.GetLedgerEntries(accountNumber, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}
