package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"teamdash/internal/dto"
	apierrors "teamdash/internal/errors"
	"teamdash/internal/middleware"
	"teamdash/internal/services"
)

// TeamHandler coordinates team HTTP handlers.
type TeamHandler struct {
	teamService *services.TeamService
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
	}
}

// CreateTeam creates a team; the creator becomes its first moderator.
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTeamRequest struct {
		Name string `json:"name" binding:"required,max=100"`
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	team, err := h.teamService.CreateTeam(req.Name, userID)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTeamDTO(*team))
}

// ListTeams returns all teams.
func (h *TeamHandler) ListTeams(c *gin.Context) {
	teams, err := h.teamService.ListTeams()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	teamDTOs := make([]dto.TeamDTO, len(teams))
	for i, team := range teams {
		teamDTOs[i] = dto.ToTeamDTO(team)
	}

	c.JSON(http.StatusOK, teamDTOs)
}

// ListMyTeams returns the teams the authenticated user belongs to, with the
// user's role in each.
func (h *TeamHandler) ListMyTeams(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	memberships, err := h.teamService.ListTeamsForUser(userID)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	teamDTOs := make([]dto.TeamWithRoleDTO, len(memberships))
	for i, membership := range memberships {
		teamDTOs[i] = dto.ToTeamWithRoleDTO(membership)
	}

	c.JSON(http.StatusOK, teamDTOs)
}

// GetTeam returns a team with its members. Access is guarded by
// RequireTeamAccess.
func (h *TeamHandler) GetTeam(c *gin.Context) {
	team, ok := middleware.GetTeam(c)
	if !ok {
		apierrors.InternalError(c, "Team not found in context")
		return
	}

	team, members, err := h.teamService.GetTeamWithMembers(team.ID)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDetailDTO(*team, members))
}

// UpdateTeam renames a team. Moderator-only, guarded by RequireTeamModerator.
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	team, ok := middleware.GetTeam(c)
	if !ok {
		apierrors.InternalError(c, "Team not found in context")
		return
	}

	type UpdateTeamRequest struct {
		Name string `json:"name" binding:"required,max=100"`
	}

	var req UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.teamService.RenameTeam(team.ID, req.Name)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDTO(*updated))
}

// DeleteTeam deletes a team. Its memberships go with it; its tasks are
// unassigned, never deleted. Moderator-only.
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	team, ok := middleware.GetTeam(c)
	if !ok {
		apierrors.InternalError(c, "Team not found in context")
		return
	}

	if err := h.teamService.DeleteTeam(team.ID); err != nil {
		respondTeamError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondTeamError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidTeamName):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTeamNameTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
