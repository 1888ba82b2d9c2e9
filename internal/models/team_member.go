package models

import "time"

// TeamMember is the join entity between users and teams. A user holds at most
// one membership per team; moderators may manage the team's membership and
// mutate its tasks.
type TeamMember struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	TeamID      uint64    `gorm:"not null;uniqueIndex:idx_team_members_team_user" json:"team_id"`
	UserID      uint64    `gorm:"not null;uniqueIndex:idx_team_members_team_user" json:"user_id"`
	IsModerator bool      `gorm:"not null;default:false" json:"is_moderator"`
	JoinedAt    time.Time `json:"joined_at"`

	// Relations
	Team Team `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
