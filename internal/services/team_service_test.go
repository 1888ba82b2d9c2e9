package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"teamdash/internal/models"
	"teamdash/internal/repository"
)

func newTeamService(db *gorm.DB) *TeamService {
	return NewTeamService(repository.NewTeamRepository(db), repository.NewUserRepository(db))
}

func TestCreateTeam_CreatorBecomesModerator(t *testing.T) {
	db := testDB(t)
	svc := newTeamService(db)

	creator := seedUser(t, db, "creator")

	team, err := svc.CreateTeam("backend", creator.ID)
	require.NoError(t, err)
	require.NotZero(t, team.ID)

	member, err := repository.NewTeamRepository(db).FindMember(team.ID, creator.ID)
	require.NoError(t, err)
	require.True(t, member.IsModerator)
	require.False(t, member.JoinedAt.IsZero())
}

func TestCreateTeam_Validation(t *testing.T) {
	db := testDB(t)
	svc := newTeamService(db)

	creator := seedUser(t, db, "creator")

	_, err := svc.CreateTeam("   ", creator.ID)
	require.ErrorIs(t, err, ErrInvalidTeamName)

	_, err = svc.CreateTeam("backend", 9999)
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.CreateTeam("backend", creator.ID)
	require.NoError(t, err)

	_, err = svc.CreateTeam("backend", creator.ID)
	require.ErrorIs(t, err, ErrTeamNameTaken)
}

func TestRenameTeam(t *testing.T) {
	db := testDB(t)
	svc := newTeamService(db)

	creator := seedUser(t, db, "creator")
	first, err := svc.CreateTeam("backend", creator.ID)
	require.NoError(t, err)
	_, err = svc.CreateTeam("frontend", creator.ID)
	require.NoError(t, err)

	renamed, err := svc.RenameTeam(first.ID, "platform")
	require.NoError(t, err)
	require.Equal(t, "platform", renamed.Name)

	// Renaming onto an existing name collides.
	_, err = svc.RenameTeam(first.ID, "frontend")
	require.ErrorIs(t, err, ErrTeamNameTaken)

	// Renaming to the current name is a no-op, not a collision.
	_, err = svc.RenameTeam(first.ID, "platform")
	require.NoError(t, err)
}

func TestDeleteTeam_UnassignsTasksAndRemovesMembers(t *testing.T) {
	db := testDB(t)
	svc := newTeamService(db)

	creator := seedUser(t, db, "creator")
	team, err := svc.CreateTeam("backend", creator.ID)
	require.NoError(t, err)

	task := &models.Task{Title: "write docs", OwnerID: creator.ID, TeamID: &team.ID}
	require.NoError(t, db.Create(task).Error)

	require.NoError(t, svc.DeleteTeam(team.ID))

	_, err = svc.GetTeam(team.ID)
	require.ErrorIs(t, err, ErrTeamNotFound)

	var memberships int64
	require.NoError(t, db.Model(&models.TeamMember{}).Where("team_id = ?", team.ID).Count(&memberships).Error)
	require.Zero(t, memberships)

	// The task survives the team: it stays with its owner, unassigned.
	var survived models.Task
	require.NoError(t, db.First(&survived, task.ID).Error)
	require.Equal(t, creator.ID, survived.OwnerID)
	require.Nil(t, survived.TeamID)
}

func TestListTeamsForUser(t *testing.T) {
	db := testDB(t)
	svc := newTeamService(db)

	creator := seedUser(t, db, "creator")
	other := seedUser(t, db, "other")

	_, err := svc.CreateTeam("backend", creator.ID)
	require.NoError(t, err)
	_, err = svc.CreateTeam("frontend", creator.ID)
	require.NoError(t, err)
	_, err = svc.CreateTeam("design", other.ID)
	require.NoError(t, err)

	memberships, err := svc.ListTeamsForUser(creator.ID)
	require.NoError(t, err)
	require.Len(t, memberships, 2)
	for _, m := range memberships {
		require.NotZero(t, m.Team.ID)
		require.True(t, m.IsModerator)
	}
}
