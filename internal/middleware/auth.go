package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"teamdash/internal/authz"
	"teamdash/internal/constants"
	apierrors "teamdash/internal/errors"
	"teamdash/internal/models"
)

// RequireAuth authenticates the request through the authorization gate. The
// bearer token is taken from the Authorization header, falling back to the
// access_token cookie for browser clients. Every failure on this path gets
// the same 401; the cause (missing vs. expired vs. tampered vs. vanished
// user) is never revealed.
func RequireAuth(gate *authz.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)

		user, err := gate.AuthenticateToken(token)
		if err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, user)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	cookie, err := c.Cookie(constants.AccessTokenCookie)
	if err != nil {
		return ""
	}
	return cookie
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	id, ok := userID.(uint64)
	return id, ok
}

// GetUser retrieves the authenticated user from context
func GetUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}

	user, ok := value.(*models.User)
	return user, ok
}
