package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"teamdash/internal/dto"
	apierrors "teamdash/internal/errors"
	"teamdash/internal/middleware"
	"teamdash/internal/services"
)

// UserHandler coordinates user profile HTTP handlers.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers returns all users.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	userDTOs := make([]dto.UserDTO, len(users))
	for i, user := range users {
		userDTOs[i] = dto.ToUserDTO(user)
	}

	c.JSON(http.StatusOK, userDTOs)
}

// GetUser returns a single user by ID.
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.userService.GetUser(userID)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateUser updates the user's profile. Only the user themselves may do it.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	principalID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	if principalID != targetID {
		apierrors.Forbidden(c, "You can only modify your own profile")
		return
	}

	type UpdateUserRequest struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
		FullName *string `json:"full_name"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(targetID, services.UpdateProfileInput{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// DeleteUser deletes the user's own account, cascading memberships and owned
// tasks in the same transaction.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	principalID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	if principalID != targetID {
		apierrors.Forbidden(c, "You can only delete your own account")
		return
	}

	if err := h.userService.DeleteUser(targetID); err != nil {
		respondUserError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
