package repository

import (
	"errors"

	"teamdash/internal/models"
)

// ErrLastModerator is returned when a removal or demotion would leave a team
// with remaining members but no moderator.
var ErrLastModerator = errors.New("team repository: operation would leave the team without a moderator")

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// List retrieves all users
	List() ([]models.User, error)

	// Update updates a user
	Update(user *models.User) error

	// Delete deletes a user together with their memberships and owned tasks
	Delete(id uint64) error
}

// TeamRepository defines the interface for team and membership data access
type TeamRepository interface {
	// CreateWithModerator creates a team and its creator's moderator
	// membership within a single transaction
	CreateWithModerator(team *models.Team, creatorID uint64) error

	// FindByID finds a team by ID
	FindByID(id uint64) (*models.Team, error)

	// FindByName finds a team by its unique name
	FindByName(name string) (*models.Team, error)

	// List retrieves all teams
	List() ([]models.Team, error)

	// Update updates a team
	Update(team *models.Team) error

	// Delete deletes a team, its memberships, and unassigns (never deletes)
	// its tasks, all within a single transaction
	Delete(id uint64) error

	// AddMember adds a membership record
	AddMember(member *models.TeamMember) error

	// FindMember finds a specific membership
	FindMember(teamID, userID uint64) (*models.TeamMember, error)

	// ListMembers lists all memberships of a team
	ListMembers(teamID uint64) ([]models.TeamMember, error)

	// ListMembershipsByUserID lists all memberships a user holds
	ListMembershipsByUserID(userID uint64) ([]models.TeamMember, error)

	// MemberTeamIDs returns the IDs of all teams the user belongs to
	MemberTeamIDs(userID uint64) ([]uint64, error)

	// RemoveMemberGuarded removes a membership, rejecting with
	// ErrLastModerator when the removal would orphan remaining members
	RemoveMemberGuarded(teamID, userID uint64) error

	// SetMemberRoleGuarded updates the moderator flag, rejecting with
	// ErrLastModerator when demoting the sole moderator of a team that
	// still has other members
	SetMemberRoleGuarded(teamID, userID uint64, moderator bool) (*models.TeamMember, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	// VisibleTo restricts results to tasks the user owns or tasks assigned
	// to a team the user belongs to
	VisibleTo *uint64
	OwnerID   *uint64
	TeamID    *uint64
	Status    *models.TaskStatus
	Page      int
	PageSize  int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task
	Delete(id uint64) error
}
