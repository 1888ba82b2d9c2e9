package authz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"teamdash/internal/auth"
	"teamdash/internal/models"
	"teamdash/internal/repository"
)

func newTestGate(db *gorm.DB, tokens *auth.TokenService) *Gate {
	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	return NewGate(tokens, userRepo, teamRepo, NewResolver(userRepo, teamRepo))
}

func TestGate_AuthenticateToken(t *testing.T) {
	db := testDB(t)
	tokens := auth.NewTokenService("test-secret", 30*time.Minute)
	gate := newTestGate(db, tokens)

	user := seedUser(t, db, "alice")

	token, err := tokens.Issue(user.ID, user.Email)
	require.NoError(t, err)

	principal, err := gate.AuthenticateToken(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, principal.ID)
}

// Every failure mode of the token path collapses to the same error: callers
// cannot tell a missing token from a tampered, expired, or orphaned one.
func TestGate_AuthenticateToken_UniformFailure(t *testing.T) {
	db := testDB(t)
	tokens := auth.NewTokenService("test-secret", 30*time.Minute)
	gate := newTestGate(db, tokens)

	user := seedUser(t, db, "alice")

	_, err := gate.AuthenticateToken("")
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, err = gate.AuthenticateToken("garbage")
	require.ErrorIs(t, err, ErrUnauthenticated)

	foreign, err := auth.NewTokenService("other-secret", 30*time.Minute).Issue(user.ID, user.Email)
	require.NoError(t, err)
	_, err = gate.AuthenticateToken(foreign)
	require.ErrorIs(t, err, ErrUnauthenticated)

	expired, err := auth.NewTokenService("test-secret", -time.Minute).Issue(user.ID, user.Email)
	require.NoError(t, err)
	_, err = gate.AuthenticateToken(expired)
	require.ErrorIs(t, err, ErrUnauthenticated)

	// A valid token whose subject no longer exists is just as dead.
	orphan, err := tokens.Issue(9999, "ghost@example.com")
	require.NoError(t, err)
	_, err = gate.AuthenticateToken(orphan)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestGate_AuthorizeTaskActions(t *testing.T) {
	db := testDB(t)
	tokens := auth.NewTokenService("test-secret", 30*time.Minute)
	gate := newTestGate(db, tokens)

	owner := seedUser(t, db, "owner")
	member := seedUser(t, db, "member")
	stranger := seedUser(t, db, "stranger")

	team := seedTeam(t, db, "backend")
	seedMember(t, db, team.ID, member.ID, false)

	task := &models.Task{Title: "shared", OwnerID: owner.ID, TeamID: &team.ID}
	require.NoError(t, db.Create(task).Error)

	// Read follows visibility, mutation follows ownership/moderation.
	require.NoError(t, gate.Authorize(member, ActionTaskRead, Resource{Task: task}))
	require.ErrorIs(t, gate.Authorize(stranger, ActionTaskRead, Resource{Task: task}), ErrForbidden)
	require.NoError(t, gate.Authorize(owner, ActionTaskUpdate, Resource{Task: task}))
	require.ErrorIs(t, gate.Authorize(member, ActionTaskDelete, Resource{Task: task}), ErrForbidden)

	// Create only validates the assignment; any user may create as owner.
	require.NoError(t, gate.Authorize(stranger, ActionTaskCreate, Resource{NewTeamID: &team.ID}))
	missing := uint64(9999)
	require.ErrorIs(t, gate.Authorize(stranger, ActionTaskCreate, Resource{NewTeamID: &missing}), ErrTeamNotFound)

	// Reassignment re-validates the new team reference.
	require.ErrorIs(t, gate.Authorize(owner, ActionTaskUpdate, Resource{Task: task, NewTeamID: &missing}), ErrTeamNotFound)
}

func TestGate_AuthorizeTeamActions(t *testing.T) {
	db := testDB(t)
	tokens := auth.NewTokenService("test-secret", 30*time.Minute)
	gate := newTestGate(db, tokens)

	moderator := seedUser(t, db, "moderator")
	member := seedUser(t, db, "member")
	stranger := seedUser(t, db, "stranger")

	team := seedTeam(t, db, "backend")
	seedMember(t, db, team.ID, moderator.ID, true)
	seedMember(t, db, team.ID, member.ID, false)

	require.NoError(t, gate.Authorize(moderator, ActionTeamUpdate, Resource{TeamID: team.ID}))
	require.ErrorIs(t, gate.Authorize(member, ActionTeamUpdate, Resource{TeamID: team.ID}), ErrForbidden)
	require.ErrorIs(t, gate.Authorize(stranger, ActionTeamDelete, Resource{TeamID: team.ID}), ErrForbidden)
}
