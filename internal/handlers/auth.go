package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"teamdash/internal/auth"
	"teamdash/internal/constants"
	"teamdash/internal/dto"
	apierrors "teamdash/internal/errors"
	"teamdash/internal/middleware"
	"teamdash/internal/services"
)

// AuthHandler coordinates registration, login, and password management.
type AuthHandler struct {
	userService *services.UserService
	tokens      *auth.TokenService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userService *services.UserService, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		tokens:      tokens,
	}
}

// Register creates a new user account.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Username string `json:"username" binding:"required,min=3,max=50"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		FullName string `json:"full_name"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.Register(services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// Login verifies credentials and returns a signed bearer token. The token is
// also set as a cookie for browser clients; validity is carried entirely by
// the token itself, nothing is stored server-side.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.Authenticate(req.Email, req.Password)
	if err != nil {
		respondUserError(c, err)
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Email)
	if err != nil {
		apierrors.InternalError(c, "Failed to issue token")
		return
	}

	c.SetCookie(constants.AccessTokenCookie, token, 0, "/", "", false, true)
	c.JSON(http.StatusOK, dto.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Logout clears the token cookie. The token itself stays valid until its
// expiry; there is no revocation list.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(constants.AccessTokenCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// ChangePassword verifies the current password before storing a new one.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type ChangePasswordRequest struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required"`
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.userService.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password updated successfully",
	})
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrUsernameRequired),
		errors.Is(err, services.ErrEmailRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrFailedToHashPassword):
		apierrors.InternalError(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
