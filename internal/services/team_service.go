package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"teamdash/internal/models"
	"teamdash/internal/repository"
)

var (
	ErrTeamNotFound    = errors.New("team not found")
	ErrTeamNameTaken   = errors.New("team name already taken")
	ErrInvalidTeamName = errors.New("team name cannot be empty")
)

// TeamService provides business logic for team operations.
type TeamService struct {
	teamRepo repository.TeamRepository
	userRepo repository.UserRepository
}

// NewTeamService creates a new TeamService.
func NewTeamService(teamRepo repository.TeamRepository, userRepo repository.UserRepository) *TeamService {
	return &TeamService{
		teamRepo: teamRepo,
		userRepo: userRepo,
	}
}

// CreateTeam creates a new team and makes the creator its first moderator.
// Team and membership are written in the same transaction.
func (s *TeamService) CreateTeam(name string, creatorID uint64) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidTeamName
	}

	if _, err := s.userRepo.FindByID(creatorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find creator: %w", err)
	}

	if _, err := s.teamRepo.FindByName(name); err == nil {
		return nil, ErrTeamNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check team name: %w", err)
	}

	team := &models.Team{Name: name}
	if err := s.teamRepo.CreateWithModerator(team, creatorID); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	return team, nil
}

// ListTeams returns all teams.
func (s *TeamService) ListTeams() ([]models.Team, error) {
	teams, err := s.teamRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

// GetTeam retrieves a team by ID.
func (s *TeamService) GetTeam(teamID uint64) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}
	return team, nil
}

// GetTeamWithMembers returns a team and all of its memberships.
func (s *TeamService) GetTeamWithMembers(teamID uint64) (*models.Team, []models.TeamMember, error) {
	team, err := s.GetTeam(teamID)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.teamRepo.ListMembers(teamID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list team members: %w", err)
	}

	return team, members, nil
}

// RenameTeam updates a team's name, re-checking uniqueness.
func (s *TeamService) RenameTeam(teamID uint64, name string) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidTeamName
	}

	team, err := s.GetTeam(teamID)
	if err != nil {
		return nil, err
	}

	if name != team.Name {
		if existing, err := s.teamRepo.FindByName(name); err == nil && existing.ID != teamID {
			return nil, ErrTeamNameTaken
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check team name: %w", err)
		}
	}

	team.Name = name
	if err := s.teamRepo.Update(team); err != nil {
		return nil, fmt.Errorf("failed to update team: %w", err)
	}

	return team, nil
}

// DeleteTeam removes a team, its memberships, and unassigns its tasks. The
// last-moderator guard does not apply here: deleting the team is the one
// operation allowed to take its moderators with it.
func (s *TeamService) DeleteTeam(teamID uint64) error {
	if _, err := s.GetTeam(teamID); err != nil {
		return err
	}

	if err := s.teamRepo.Delete(teamID); err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}

	return nil
}

// ListTeamsForUser returns the memberships (with teams preloaded) a user holds.
func (s *TeamService) ListTeamsForUser(userID uint64) ([]models.TeamMember, error) {
	memberships, err := s.teamRepo.ListMembershipsByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return memberships, nil
}
