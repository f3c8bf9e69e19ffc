package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finken/internal/avatar"
	apperrors "finken/internal/errors"
	"finken/internal/services"
)

// maxAvatarBytes caps profile picture uploads at 5 MiB.
const maxAvatarBytes = 5 << 20

// ProfileHandler handles profile picture uploads and retrieval.
type ProfileHandler struct {
	store       *avatar.Store
	userService services.UserAdminServicer
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(store *avatar.Store, userService services.UserAdminServicer) *ProfileHandler {
	return &ProfileHandler{store: store, userService: userService}
}

// UploadPicture stores a profile picture
// @Summary     Upload profile picture
// @Description Upload an image; it is cropped square and scaled to 400x400 JPEG
// @Tags        user
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       picture formData file true "Image file (JPEG, PNG, or GIF)"
// @Success     200 {object} map[string]interface{} "Picture stored"
// @Failure     400 {object} ErrorResponse "Invalid image"
// @Router      /profile/picture [post]
func (h *ProfileHandler) UploadPicture(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	fileHeader, err := c.FormFile("picture")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "picture file is required"))
		return
	}
	if fileHeader.Size > maxAvatarBytes {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "picture must be smaller than 5MB"))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	defer f.Close()

	name, err := h.store.Save(userID, f)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unsupported or corrupt image"))
		return
	}

	if err := h.userService.SetProfilePicture(userID, name); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile picture updated", "file": name})
}

// GetPicture serves the authenticated user's profile picture
// @Summary     Get profile picture
// @Tags        user
// @Produce     image/jpeg
// @Security    BearerAuth
// @Success     200 {file} file "Profile picture"
// @Failure     404 {object} ErrorResponse "No picture set"
// @Router      /profile/picture [get]
func (h *ProfileHandler) GetPicture(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	path, ok := h.store.Path(userID)
	if !ok {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrNotFound, "No profile picture set"))
		return
	}

	c.File(path)
}

// DeletePicture removes the profile picture
// @Summary     Delete profile picture
// @Tags        user
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Picture removed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /profile/picture [delete]
func (h *ProfileHandler) DeletePicture(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.store.Delete(userID); err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	if err := h.userService.SetProfilePicture(userID, ""); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile picture removed"})
}
