package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "finken/internal/errors"
	"finken/internal/services"
)

// ResetHandler handles the forgot-password flow.
type ResetHandler struct {
	resetService services.ResetServicer
}

// NewResetHandler creates a new ResetHandler.
func NewResetHandler(resetService services.ResetServicer) *ResetHandler {
	return &ResetHandler{resetService: resetService}
}

// FindUserRequest identifies the account to reset.
type FindUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
}

// VerifyAnswerRequest carries the security answer attempt.
type VerifyAnswerRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Answer string `json:"answer" binding:"required"`
}

// ResetPasswordRequest carries the new password.
type ResetPasswordRequest struct {
	UserID      uint   `json:"user_id" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,max=128"`
}

// FindUser looks up the account for a reset
// @Summary     Find account for password reset
// @Tags        password-reset
// @Accept      json
// @Produce     json
// @Param       request body FindUserRequest true "Email and username"
// @Success     200 {object} map[string]interface{} "User found"
// @Failure     404 {object} ErrorResponse "No matching user"
// @Router      /auth/forgot-password/find [post]
func (h *ResetHandler) FindUser(c *gin.Context) {
	var req FindUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	userID, err := h.resetService.FindUser(req.Email, req.Username)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": userID})
}

// VerifyAnswer checks the security answer
// @Summary     Verify security answer
// @Tags        password-reset
// @Accept      json
// @Produce     json
// @Param       request body VerifyAnswerRequest true "Answer attempt"
// @Success     200 {object} map[string]interface{} "Answer verified"
// @Failure     401 {object} ErrorResponse "Incorrect answer"
// @Router      /auth/forgot-password/verify [post]
func (h *ResetHandler) VerifyAnswer(c *gin.Context) {
	var req VerifyAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.resetService.VerifySecurityAnswer(req.UserID, req.Answer); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Security answer verified"})
}

// ResetPassword rotates the password
// @Summary     Reset password
// @Tags        password-reset
// @Accept      json
// @Produce     json
// @Param       request body ResetPasswordRequest true "New password"
// @Success     200 {object} map[string]interface{} "Password reset"
// @Failure     400 {object} ErrorResponse "Policy violation"
// @Failure     409 {object} ErrorResponse "Password reused"
// @Router      /auth/forgot-password/reset [post]
func (h *ResetHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.resetService.ChangePassword(req.UserID, req.NewPassword); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}
