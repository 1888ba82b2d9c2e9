package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"teamdash/internal/models"
	"teamdash/internal/repository"
)

var (
	ErrNotModerator   = errors.New("only team moderators can perform this action")
	ErrNotTeamMember  = errors.New("user is not a member of the team")
	ErrAlreadyMember  = errors.New("user is already a member of the team")
	ErrMemberNotFound = errors.New("team member not found")

	// ErrLastModerator rejects any removal or demotion that would leave a
	// team with remaining members but zero moderators.
	ErrLastModerator = errors.New("team must retain at least one moderator")
)

// MembershipService is the membership ledger: the set of (user, team,
// moderator, joined-at) records and the rules governing who may change it.
type MembershipService struct {
	teamRepo repository.TeamRepository
	userRepo repository.UserRepository
}

// NewMembershipService creates a new MembershipService.
func NewMembershipService(teamRepo repository.TeamRepository, userRepo repository.UserRepository) *MembershipService {
	return &MembershipService{
		teamRepo: teamRepo,
		userRepo: userRepo,
	}
}

// AddMember adds a user to a team. The requester must hold a moderator
// membership on the team.
func (s *MembershipService) AddMember(teamID, requesterID, targetUserID uint64, asModerator bool) (*models.TeamMember, error) {
	if err := s.requireModerator(teamID, requesterID); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByID(targetUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.teamRepo.FindMember(teamID, targetUserID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	member := &models.TeamMember{
		TeamID:      teamID,
		UserID:      targetUserID,
		IsModerator: asModerator,
		JoinedAt:    time.Now(),
	}

	if err := s.teamRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add team member: %w", err)
	}

	return member, nil
}

// UpdateMemberRole promotes or demotes a member. The requester must be a
// moderator; demoting the sole moderator while other members remain is
// rejected with ErrLastModerator. The moderator count is evaluated against
// the post-mutation membership set, inside the mutation's own transaction.
func (s *MembershipService) UpdateMemberRole(teamID, requesterID, targetUserID uint64, moderator bool) (*models.TeamMember, error) {
	if err := s.requireModerator(teamID, requesterID); err != nil {
		return nil, err
	}

	member, err := s.teamRepo.SetMemberRoleGuarded(teamID, targetUserID, moderator)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrLastModerator):
			return nil, ErrLastModerator
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrMemberNotFound
		default:
			return nil, fmt.Errorf("failed to update member role: %w", err)
		}
	}

	return member, nil
}

// RemoveMember removes a user from a team. Permitted when the requester is
// the target (self-leave) or holds a moderator membership; rejected with
// ErrLastModerator when the target is the sole moderator and other members
// remain.
func (s *MembershipService) RemoveMember(teamID, requesterID, targetUserID uint64) error {
	if requesterID != targetUserID {
		if err := s.requireModerator(teamID, requesterID); err != nil {
			return err
		}
	} else if err := s.requireTeam(teamID); err != nil {
		return err
	}

	if err := s.teamRepo.RemoveMemberGuarded(teamID, targetUserID); err != nil {
		switch {
		case errors.Is(err, repository.ErrLastModerator):
			return ErrLastModerator
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ErrMemberNotFound
		default:
			return fmt.Errorf("failed to remove team member: %w", err)
		}
	}

	return nil
}

// ListMembers returns a team's memberships. The requester must be a member of
// the team.
func (s *MembershipService) ListMembers(teamID, requesterID uint64) ([]models.TeamMember, error) {
	if err := s.requireTeam(teamID); err != nil {
		return nil, err
	}

	if _, err := s.teamRepo.FindMember(teamID, requesterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotTeamMember
		}
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	members, err := s.teamRepo.ListMembers(teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}

	return members, nil
}

// GetMember returns a single membership record.
func (s *MembershipService) GetMember(teamID, userID uint64) (*models.TeamMember, error) {
	member, err := s.teamRepo.FindMember(teamID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find team member: %w", err)
	}
	return member, nil
}

func (s *MembershipService) requireTeam(teamID uint64) error {
	if _, err := s.teamRepo.FindByID(teamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to find team: %w", err)
	}
	return nil
}

func (s *MembershipService) requireModerator(teamID, requesterID uint64) error {
	if err := s.requireTeam(teamID); err != nil {
		return err
	}

	member, err := s.teamRepo.FindMember(teamID, requesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotModerator
		}
		return fmt.Errorf("failed to verify membership: %w", err)
	}

	if !member.IsModerator {
		return ErrNotModerator
	}

	return nil
}
