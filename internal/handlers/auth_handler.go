package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "finken/internal/errors"
	"finken/internal/middleware"
	"finken/internal/models"
	"finken/internal/services"
)

// AuthHandler handles sign-in and profile requests.
type AuthHandler struct {
	authService  services.AuthServicer
	userService  services.UserAdminServicer
	auditService services.AuditServicer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService services.AuthServicer, userService services.UserAdminServicer, auditService services.AuditServicer) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService, auditService: auditService}
}

// SignInRequest represents the sign-in request payload.
type SignInRequest struct {
	Username string `json:"username" binding:"required,max=100"`
	Password string `json:"password" binding:"required"`
}

// SignInResponse represents the authentication response with tokens.
type SignInResponse struct {
	AccessToken  string                `json:"access_token"`
	RefreshToken string                `json:"refresh_token"`
	User         services.SignInResult `json:"user"`
}

// SignIn authenticates a user
// @Summary     Sign in
// @Description Authenticate with username and password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body SignInRequest true "Credentials"
// @Success     200 {object} SignInResponse "Authenticated"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     403 {object} ErrorResponse "Account inactive or suspended"
// @Router      /auth/signin [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.authService.SignIn(req.Username, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(result.UserID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accessToken, err := middleware.GenerateAccessToken(result, user.RoleID)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	refreshToken, err := middleware.GenerateRefreshToken(result, user.RoleID)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	h.auditService.Log(result.UserID, "SIGN_IN", "users", result.UserID, nil, nil)

	c.JSON(http.StatusOK, SignInResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         *result,
	})
}

// GetProfile returns the authenticated user's profile
// @Summary     Get profile
// @Tags        user
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "User profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":         user.ID,
			"username":   user.Username,
			"email":      user.Email,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"role":       models.DefaultRoleName(user.RoleID),
			"is_active":  user.IsActive,
		},
	})
}
