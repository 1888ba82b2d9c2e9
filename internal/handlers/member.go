package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"teamdash/internal/dto"
	apierrors "teamdash/internal/errors"
	"teamdash/internal/middleware"
	"teamdash/internal/services"
)

// MemberHandler coordinates team membership HTTP handlers. Authorization is
// delegated to the membership service: it knows who may add, promote, demote,
// and remove, and it owns the last-moderator invariant.
type MemberHandler struct {
	membershipService *services.MembershipService
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(membershipService *services.MembershipService) *MemberHandler {
	return &MemberHandler{
		membershipService: membershipService,
	}
}

// AddMember adds a user to the team. Moderator-only.
func (h *MemberHandler) AddMember(c *gin.Context) {
	teamID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid team ID")
		return
	}

	requesterID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type AddMemberRequest struct {
		UserID      uint64 `json:"user_id" binding:"required"`
		IsModerator bool   `json:"is_moderator"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.membershipService.AddMember(teamID, requesterID, req.UserID, req.IsModerator)
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTeamMemberDTO(*member))
}

// ListMembers returns the team's memberships. Member-only.
func (h *MemberHandler) ListMembers(c *gin.Context) {
	teamID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid team ID")
		return
	}

	requesterID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	members, err := h.membershipService.ListMembers(teamID, requesterID)
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	memberDTOs := make([]dto.TeamMemberDTO, len(members))
	for i, member := range members {
		memberDTOs[i] = dto.ToTeamMemberDTO(member)
	}

	c.JSON(http.StatusOK, memberDTOs)
}

// UpdateMemberRole promotes or demotes a member. Moderator-only; demoting the
// last moderator of a team with other members is rejected.
func (h *MemberHandler) UpdateMemberRole(c *gin.Context) {
	teamID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid team ID")
		return
	}

	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	requesterID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpdateRoleRequest struct {
		IsModerator *bool `json:"is_moderator" binding:"required"`
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.membershipService.UpdateMemberRole(teamID, requesterID, targetID, *req.IsModerator)
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamMemberDTO(*member))
}

// RemoveMember removes a user from the team: moderators may remove anyone,
// any member may remove themselves. Removing the sole moderator of a team
// with other members is rejected.
func (h *MemberHandler) RemoveMember(c *gin.Context) {
	teamID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid team ID")
		return
	}

	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	requesterID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.membershipService.RemoveMember(teamID, requesterID, targetID); err != nil {
		respondMembershipError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondMembershipError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotModerator),
		errors.Is(err, services.ErrNotTeamMember):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrAlreadyMember):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrLastModerator):
		apierrors.InvariantViolation(c, err.Error())
	case errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrMemberNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
