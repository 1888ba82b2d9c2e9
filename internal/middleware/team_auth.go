package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"teamdash/internal/constants"
	apierrors "teamdash/internal/errors"
	"teamdash/internal/models"
	"teamdash/internal/repository"
)

// RequireTeamAccess checks that the authenticated user is a member of the
// team in the URL. Non-members get 404 rather than 403 so the team's
// existence is not leaked.
func RequireTeamAccess(teamRepo repository.TeamRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		teamID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid team ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		team, err := teamRepo.FindByID(teamID)
		if err != nil {
			apierrors.NotFound(c, "Team not found")
			c.Abort()
			return
		}

		member, err := teamRepo.FindMember(teamID, userID)
		if err != nil {
			apierrors.NotFound(c, "Team not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTeam, team)
		c.Set(constants.ContextKeyMembership, member)
		c.Next()
	}
}

// RequireTeamModerator checks that the membership loaded by RequireTeamAccess
// carries the moderator flag.
func RequireTeamModerator() gin.HandlerFunc {
	return func(c *gin.Context) {
		member, ok := GetMembership(c)
		if !ok {
			apierrors.Forbidden(c, "Team access required")
			c.Abort()
			return
		}

		if !member.IsModerator {
			apierrors.Forbidden(c, "Only team moderators can perform this action")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetTeam retrieves the team loaded by RequireTeamAccess
func GetTeam(c *gin.Context) (*models.Team, bool) {
	value, exists := c.Get(constants.ContextKeyTeam)
	if !exists {
		return nil, false
	}

	team, ok := value.(*models.Team)
	return team, ok
}

// GetMembership retrieves the requester's membership loaded by RequireTeamAccess
func GetMembership(c *gin.Context) (*models.TeamMember, bool) {
	value, exists := c.Get(constants.ContextKeyMembership)
	if !exists {
		return nil, false
	}

	member, ok := value.(*models.TeamMember)
	return member, ok
}
