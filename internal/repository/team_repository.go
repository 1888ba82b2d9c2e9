package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"teamdash/internal/models"
)

// GormTeamRepository is a GORM implementation of TeamRepository
type GormTeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &GormTeamRepository{db: db}
}

// CreateWithModerator creates the team and the creator's moderator membership
// atomically, so a team is never visible without at least one moderator.
func (r *GormTeamRepository) CreateWithModerator(team *models.Team, creatorID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return err
		}

		member := &models.TeamMember{
			TeamID:      team.ID,
			UserID:      creatorID,
			IsModerator: true,
			JoinedAt:    time.Now(),
		}

		return tx.Create(member).Error
	})
}

// FindByID finds a team by ID
func (r *GormTeamRepository) FindByID(id uint64) (*models.Team, error) {
	var team models.Team
	if err := r.db.First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// FindByName finds a team by its unique name
func (r *GormTeamRepository) FindByName(name string) (*models.Team, error) {
	var team models.Team
	if err := r.db.Where("name = ?", name).First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// List retrieves all teams
func (r *GormTeamRepository) List() ([]models.Team, error) {
	var teams []models.Team
	if err := r.db.Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

// Update updates a team
func (r *GormTeamRepository) Update(team *models.Team) error {
	return r.db.Save(team).Error
}

// Delete deletes a team and all related data in a transaction. Tasks assigned
// to the team keep their owner and are unassigned, never deleted.
func (r *GormTeamRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", id).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Task{}).Where("team_id = ?", id).
			Update("team_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Team{}, id).Error
	})
}

// AddMember adds a membership record
func (r *GormTeamRepository) AddMember(member *models.TeamMember) error {
	return r.db.Create(member).Error
}

// FindMember finds a specific membership
func (r *GormTeamRepository) FindMember(teamID, userID uint64) (*models.TeamMember, error) {
	var member models.TeamMember
	if err := r.db.Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers lists all memberships of a team
func (r *GormTeamRepository) ListMembers(teamID uint64) ([]models.TeamMember, error) {
	var members []models.TeamMember
	if err := r.db.Preload("User").
		Where("team_id = ?", teamID).
		Order("joined_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// ListMembershipsByUserID lists all memberships a user holds
func (r *GormTeamRepository) ListMembershipsByUserID(userID uint64) ([]models.TeamMember, error) {
	var memberships []models.TeamMember
	if err := r.db.Preload("Team").
		Where("user_id = ?", userID).
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// MemberTeamIDs returns the IDs of all teams the user belongs to
func (r *GormTeamRepository) MemberTeamIDs(userID uint64) ([]uint64, error) {
	var ids []uint64
	if err := r.db.Model(&models.TeamMember{}).
		Where("user_id = ?", userID).
		Pluck("team_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// RemoveMemberGuarded removes a membership. The team's membership rows are
// read under row locks in the same transaction as the delete, so two
// concurrent removals cannot both observe "not last moderator" and jointly
// leave the team unmoderated.
func (r *GormTeamRepository) RemoveMemberGuarded(teamID, userID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		members, target, moderators, err := loadMembersForUpdate(tx, teamID, userID)
		if err != nil {
			return err
		}

		if target.IsModerator && moderators == 1 && len(members) > 1 {
			return ErrLastModerator
		}

		return tx.Delete(&models.TeamMember{}, target.ID).Error
	})
}

// SetMemberRoleGuarded updates the moderator flag under the same locked
// recount as RemoveMemberGuarded.
func (r *GormTeamRepository) SetMemberRoleGuarded(teamID, userID uint64, moderator bool) (*models.TeamMember, error) {
	var updated models.TeamMember

	err := r.db.Transaction(func(tx *gorm.DB) error {
		members, target, moderators, err := loadMembersForUpdate(tx, teamID, userID)
		if err != nil {
			return err
		}

		if !moderator && target.IsModerator && moderators == 1 && len(members) > 1 {
			return ErrLastModerator
		}

		target.IsModerator = moderator
		if err := tx.Model(&models.TeamMember{}).Where("id = ?", target.ID).
			Update("is_moderator", moderator).Error; err != nil {
			return err
		}

		updated = *target
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// loadMembersForUpdate reads a team's full membership set inside tx, taking
// row locks so concurrent guarded mutations of the same team serialize, and
// locates the target member, returning the current moderator count.
func loadMembersForUpdate(tx *gorm.DB, teamID, userID uint64) ([]models.TeamMember, *models.TeamMember, int, error) {
	query := tx.Where("team_id = ?", teamID)
	// sqlite has no FOR UPDATE; its transactions take a database-wide write
	// lock, which already serializes the recount there.
	if tx.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var members []models.TeamMember
	if err := query.Find(&members).Error; err != nil {
		return nil, nil, 0, err
	}

	var target *models.TeamMember
	moderators := 0
	for i := range members {
		if members[i].IsModerator {
			moderators++
		}
		if members[i].UserID == userID {
			target = &members[i]
		}
	}

	if target == nil {
		return nil, nil, 0, gorm.ErrRecordNotFound
	}

	return members, target, moderators, nil
}
