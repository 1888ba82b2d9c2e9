package authz

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"teamdash/internal/models"
	"teamdash/internal/repository"
)

var (
	// ErrOwnerNotFound is returned when a task's owner reference does not
	// resolve to an existing user.
	ErrOwnerNotFound = errors.New("task owner not found")
	// ErrTeamNotFound is returned when a task's team reference does not
	// resolve to an existing team.
	ErrTeamNotFound = errors.New("team not found")
)

// Resolver answers who may see and who may change a task. A task is visible
// to its owner and to every member of its assigned team; it is mutable by its
// owner and by the moderators of its assigned team.
type Resolver struct {
	userRepo repository.UserRepository
	teamRepo repository.TeamRepository
}

// NewResolver creates a new Resolver.
func NewResolver(userRepo repository.UserRepository, teamRepo repository.TeamRepository) *Resolver {
	return &Resolver{
		userRepo: userRepo,
		teamRepo: teamRepo,
	}
}

// CanView reports whether the principal may read the task.
func (r *Resolver) CanView(task *models.Task, principalID uint64) (bool, error) {
	if task.OwnerID == principalID {
		return true, nil
	}

	if task.TeamID == nil {
		return false, nil
	}

	_, err := r.teamRepo.FindMember(*task.TeamID, principalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check team membership: %w", err)
	}

	return true, nil
}

// CanMutate reports whether the principal may update or delete the task.
func (r *Resolver) CanMutate(task *models.Task, principalID uint64) (bool, error) {
	if task.OwnerID == principalID {
		return true, nil
	}

	if task.TeamID == nil {
		return false, nil
	}

	member, err := r.teamRepo.FindMember(*task.TeamID, principalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check team membership: %w", err)
	}

	return member.IsModerator, nil
}

// ValidateAssignment checks that an owner/team assignment is structurally
// sound: the owner must always resolve to an existing user, and the team, if
// present, must resolve to an existing team. Invoked on create and whenever
// either reference changes.
func (r *Resolver) ValidateAssignment(ownerID uint64, teamID *uint64) error {
	if _, err := r.userRepo.FindByID(ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOwnerNotFound
		}
		return fmt.Errorf("failed to resolve task owner: %w", err)
	}

	if teamID != nil {
		if _, err := r.teamRepo.FindByID(*teamID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTeamNotFound
			}
			return fmt.Errorf("failed to resolve assigned team: %w", err)
		}
	}

	return nil
}
