package dto

import (
	"time"

	"teamdash/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
}

// TeamDTO represents a team in API responses
type TeamDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// TeamMemberDTO represents a membership in API responses
type TeamMemberDTO struct {
	User        UserDTO   `json:"user"`
	TeamID      uint64    `json:"team_id"`
	IsModerator bool      `json:"is_moderator"`
	JoinedAt    time.Time `json:"joined_at"`
}

// TeamDetailDTO represents a team together with its members
type TeamDetailDTO struct {
	TeamDTO
	Members []TeamMemberDTO `json:"members"`
}

// TeamWithRoleDTO represents a team with the requesting user's role in it
type TeamWithRoleDTO struct {
	TeamDTO
	IsModerator bool `json:"is_moderator"`
}

// TokenResponse is returned from login: a bearer token valid until its
// embedded expiry.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
	}
}

// ToTeamDTO converts a Team model to TeamDTO
func ToTeamDTO(team models.Team) TeamDTO {
	return TeamDTO{
		ID:   team.ID,
		Name: team.Name,
	}
}

// ToTeamMemberDTO converts a membership to DTO
func ToTeamMemberDTO(member models.TeamMember) TeamMemberDTO {
	return TeamMemberDTO{
		User:        ToUserDTO(member.User),
		TeamID:      member.TeamID,
		IsModerator: member.IsModerator,
		JoinedAt:    member.JoinedAt,
	}
}

// ToTeamDetailDTO converts a team with its memberships to a detailed DTO
func ToTeamDetailDTO(team models.Team, members []models.TeamMember) TeamDetailDTO {
	memberDTOs := make([]TeamMemberDTO, len(members))
	for i, member := range members {
		memberDTOs[i] = ToTeamMemberDTO(member)
	}

	return TeamDetailDTO{
		TeamDTO: ToTeamDTO(team),
		Members: memberDTOs,
	}
}

// ToTeamWithRoleDTO converts a membership to a team-plus-role DTO
func ToTeamWithRoleDTO(member models.TeamMember) TeamWithRoleDTO {
	return TeamWithRoleDTO{
		TeamDTO:     ToTeamDTO(member.Team),
		IsModerator: member.IsModerator,
	}
}
