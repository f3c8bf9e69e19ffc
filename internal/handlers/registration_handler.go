package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "finken/internal/errors"
	"finken/internal/services"
)

// RegistrationHandler handles the public registration and signup endpoints.
type RegistrationHandler struct {
	registrationService services.RegistrationServicer
}

// NewRegistrationHandler creates a new RegistrationHandler.
func NewRegistrationHandler(registrationService services.RegistrationServicer) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService}
}

// RegisterRequest represents the public registration form payload.
type RegisterRequest struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
	Email     string `json:"email" binding:"required,email,max=255"`
	DOB       string `json:"dob" binding:"required"`
}

// FinalizeSignupRequest represents the signup completion payload.
type FinalizeSignupRequest struct {
	Token           string `json:"token" binding:"required"`
	Password        string `json:"password" binding:"required,max=128"`
	ConfirmPassword string `json:"confirm_password" binding:"required,max=128"`
	QuestionID      uint   `json:"question_id" binding:"required"`
	Answer          string `json:"answer" binding:"required,max=255"`
}

// Register submits a registration request
// @Summary     Submit registration request
// @Description Submit a public registration form for admin review
// @Tags        registration
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "Applicant data"
// @Success     201 {object} map[string]interface{} "Request submitted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /auth/register [post]
func (h *RegistrationHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	request, err := h.registrationService.SubmitRequest(req.FirstName, req.LastName, req.Email, req.DOB)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "User registration request submitted successfully",
		"request_id": request.ID,
	})
}

// GetSignupContext validates a signup token
// @Summary     Get signup context
// @Description Validate a signup invitation token and return the form context
// @Tags        registration
// @Produce     json
// @Param       token query string true "Invitation token"
// @Success     200 {object} services.SignupContext "Signup context"
// @Failure     404 {object} ErrorResponse "Invalid token"
// @Failure     409 {object} ErrorResponse "Used or expired token"
// @Router      /signup [get]
func (h *RegistrationHandler) GetSignupContext(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "token is required"))
		return
	}

	ctx, err := h.registrationService.GetSignupContext(token)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, ctx)
}

// FinalizeSignup redeems a signup invitation
// @Summary     Complete signup
// @Description Redeem an invitation token and create the account
// @Tags        registration
// @Accept      json
// @Produce     json
// @Param       request body FinalizeSignupRequest true "Signup data"
// @Success     201 {object} services.SignupResult "Account created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Used or expired token"
// @Router      /signup [post]
func (h *RegistrationHandler) FinalizeSignup(c *gin.Context) {
	var req FinalizeSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.registrationService.FinalizeSignup(req.Token, req.Password, req.ConfirmPassword, req.QuestionID, req.Answer)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Account created successfully",
		"username": result.Username,
		"user_id":  result.UserID,
	})
}
