// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var accountNumberRegex = regexp.MustCompile(`^\d+$`) // digits only, leading zeros allowed

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("account_number", validateAccountNumber)
		_ = v.RegisterValidation("account_category", validateAccountCategory)
		_ = v.RegisterValidation("normal_side", validateNormalSide)
		_ = v.RegisterValidation("request_status", validateRequestStatus)
		_ = v.RegisterValidation("user_status", validateUserStatus)
	}
}

func validateAccountNumber(fl validator.FieldLevel) bool {
	return accountNumberRegex.MatchString(fl.Field().String())
}

func validateAccountCategory(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "Asset", "Liability", "Equity", "Revenue", "Expense":
		return true
	}
	return false
}

func validateNormalSide(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "Debit", "Credit":
		return true
	}
	return false
}

func validateRequestStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "Pending", "Approved", "Rejected":
		return true
	}
	return false
}

func validateUserStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "active", "inactive", "suspended":
		return true
	}
	return false
}
