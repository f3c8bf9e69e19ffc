package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "finken/internal/errors"
	"finken/internal/models"
	"finken/internal/pagination"
	"finken/internal/services"
)

// AdminHandler handles administrator-only endpoints: registration request
// review and user management.
type AdminHandler struct {
	registrationService services.RegistrationServicer
	userService         services.UserAdminServicer
	inviteTTL           time.Duration
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(registrationService services.RegistrationServicer, userService services.UserAdminServicer, inviteTTL time.Duration) *AdminHandler {
	return &AdminHandler{
		registrationService: registrationService,
		userService:         userService,
		inviteTTL:           inviteTTL,
	}
}

// RejectRequestBody carries an optional rejection reason.
type RejectRequestBody struct {
	Reason string `json:"reason" binding:"max=500"`
}

// UpdateUserRequest holds optional admin edits to a user record.
type UpdateUserRequest struct {
	Email     *string `json:"email" binding:"omitempty,email,max=255"`
	FirstName *string `json:"first_name" binding:"omitempty,max=100"`
	LastName  *string `json:"last_name" binding:"omitempty,max=100"`
	Address   *string `json:"address" binding:"omitempty,max=255"`
	RoleID    *uint   `json:"role_id" binding:"omitempty,min=1,max=3"`
	IsActive  *bool   `json:"is_active"`
}

// SuspendUserRequest carries suspension parameters.
type SuspendUserRequest struct {
	EndDate string `json:"end_date" binding:"required"`
	Reason  string `json:"reason" binding:"max=500"`
}

// ListRequests lists registration requests
// @Summary     List registration requests
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Param       search query string false "Search term"
// @Param       status query string false "Status filter" Enums(Pending, Approved, Rejected)
// @Success     200 {object} pagination.PageResponse[models.RegistrationRequest]
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Router      /admin/requests [get]
func (h *AdminHandler) ListRequests(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	page.Defaults()

	status := models.RequestStatus(c.Query("status"))
	resp, err := h.registrationService.ListRequests(page, c.Query("search"), status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetRequest returns a single registration request
// @Summary     Get registration request
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Request ID"
// @Success     200 {object} models.RegistrationRequest
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /admin/requests/{id} [get]
func (h *AdminHandler) GetRequest(c *gin.Context) {
	requestID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	request, err := h.registrationService.GetRequestByID(requestID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// ApproveRequest approves a pending registration request
// @Summary     Approve registration request
// @Description Approve a pending request and email the applicant a signup link
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Request ID"
// @Success     200 {object} map[string]interface{} "Request approved"
// @Failure     409 {object} ErrorResponse "Already processed"
// @Failure     502 {object} ErrorResponse "Email delivery failed"
// @Router      /admin/requests/{id}/approve [post]
func (h *AdminHandler) ApproveRequest(c *gin.Context) {
	requestID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	reviewerID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.registrationService.Approve(requestID, reviewerID, h.inviteTTL); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Registration request approved"})
}

// RejectRequest rejects a pending registration request
// @Summary     Reject registration request
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Request ID"
// @Param       request body RejectRequestBody false "Rejection reason"
// @Success     200 {object} map[string]interface{} "Request rejected"
// @Failure     409 {object} ErrorResponse "Already processed"
// @Router      /admin/requests/{id}/reject [post]
func (h *AdminHandler) RejectRequest(c *gin.Context) {
	requestID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	reviewerID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var body RejectRequestBody
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}

	if err := h.registrationService.Reject(requestID, reviewerID, body.Reason); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Registration request rejected"})
}

// ListUsers lists user accounts
// @Summary     List users
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Param       search query string false "Search term"
// @Param       status query string false "Status filter" Enums(active, inactive, suspended)
// @Success     200 {object} pagination.PageResponse[models.User]
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Router      /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	page.Defaults()

	resp, err := h.userService.ListUsers(page, c.Query("search"), c.Query("status"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetUser returns a single user
// @Summary     Get user
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "User ID"
// @Success     200 {object} models.User
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /admin/users/{id} [get]
func (h *AdminHandler) GetUser(c *gin.Context) {
	userID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUser edits a user record
// @Summary     Update user
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "User ID"
// @Param       request body UpdateUserRequest true "Fields to update"
// @Success     200 {object} models.User
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /admin/users/{id} [put]
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	userID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	actorID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.UpdateUser(userID, actorID, services.UpdateUserInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Address:   req.Address,
		RoleID:    req.RoleID,
		IsActive:  req.IsActive,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// SuspendUser suspends a user until a given date
// @Summary     Suspend user
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "User ID"
// @Param       request body SuspendUserRequest true "Suspension parameters"
// @Success     200 {object} map[string]interface{} "User suspended"
// @Failure     400 {object} ErrorResponse "Invalid end date"
// @Router      /admin/users/{id}/suspend [post]
func (h *AdminHandler) SuspendUser(c *gin.Context) {
	userID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	adminID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SuspendUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "end_date must be in YYYY-MM-DD format"))
		return
	}

	if err := h.userService.SuspendUser(userID, adminID, endDate, req.Reason); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User suspended"})
}

// UnsuspendUser lifts a suspension
// @Summary     Unsuspend user
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "User ID"
// @Success     200 {object} map[string]interface{} "Suspension lifted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /admin/users/{id}/unsuspend [post]
func (h *AdminHandler) UnsuspendUser(c *gin.Context) {
	userID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	adminID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.userService.UnsuspendUser(userID, adminID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Suspension lifted"})
}

// GetExpiringPasswords lists users whose passwords expire soon
// @Summary     List expiring passwords
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       days query int false "Days ahead" default(3)
// @Param       all query bool false "Include already expired"
// @Success     200 {object} map[string]interface{} "Users with expiring passwords"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Router      /admin/expiring-passwords [get]
func (h *AdminHandler) GetExpiringPasswords(c *gin.Context) {
	daysAhead := 3
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "days must be a non-negative integer"))
			return
		}
		daysAhead = parsed
	}
	showAll := c.Query("all") == "true"

	users, err := h.userService.GetExpiringPasswords(daysAhead, showAll)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}
