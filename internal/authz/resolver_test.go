package authz

import (
	"testing"

	"github.com/stretchr/testify/require"

	"teamdash/internal/models"
	"teamdash/internal/repository"
)

func TestResolver_VisibilityAndMutability(t *testing.T) {
	db := testDB(t)
	resolver := NewResolver(repository.NewUserRepository(db), repository.NewTeamRepository(db))

	owner := seedUser(t, db, "owner")
	moderator := seedUser(t, db, "moderator")
	member := seedUser(t, db, "member")
	stranger := seedUser(t, db, "stranger")

	team := seedTeam(t, db, "backend")
	seedMember(t, db, team.ID, moderator.ID, true)
	seedMember(t, db, team.ID, member.ID, false)

	teamTask := &models.Task{Title: "shared", OwnerID: owner.ID, TeamID: &team.ID}
	soloTask := &models.Task{Title: "personal", OwnerID: owner.ID}
	require.NoError(t, db.Create(teamTask).Error)
	require.NoError(t, db.Create(soloTask).Error)

	cases := []struct {
		name      string
		task      *models.Task
		principal uint64
		canView   bool
		canMutate bool
	}{
		{"owner on team task", teamTask, owner.ID, true, true},
		{"moderator on team task", teamTask, moderator.ID, true, true},
		{"plain member on team task", teamTask, member.ID, true, false},
		{"stranger on team task", teamTask, stranger.ID, false, false},
		{"owner on unassigned task", soloTask, owner.ID, true, true},
		{"moderator on unassigned task", soloTask, moderator.ID, false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			view, err := resolver.CanView(tc.task, tc.principal)
			require.NoError(t, err)
			require.Equal(t, tc.canView, view)

			mutate, err := resolver.CanMutate(tc.task, tc.principal)
			require.NoError(t, err)
			require.Equal(t, tc.canMutate, mutate)
		})
	}
}

func TestResolver_ValidateAssignment(t *testing.T) {
	db := testDB(t)
	resolver := NewResolver(repository.NewUserRepository(db), repository.NewTeamRepository(db))

	owner := seedUser(t, db, "owner")
	team := seedTeam(t, db, "backend")

	require.NoError(t, resolver.ValidateAssignment(owner.ID, nil))
	require.NoError(t, resolver.ValidateAssignment(owner.ID, &team.ID))

	require.ErrorIs(t, resolver.ValidateAssignment(9999, nil), ErrOwnerNotFound)

	missing := uint64(9999)
	require.ErrorIs(t, resolver.ValidateAssignment(owner.ID, &missing), ErrTeamNotFound)
}
