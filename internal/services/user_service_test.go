package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"teamdash/internal/models"
	"teamdash/internal/repository"
)

func newUserService(db *gorm.DB) *UserService {
	return NewUserService(repository.NewUserRepository(db), testHasher())
}

func TestRegisterAndAuthenticate(t *testing.T) {
	db := testDB(t)
	svc := newUserService(db)

	user, err := svc.Register(RegisterInput{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "s3cretpass",
		FullName: "Alice Doe",
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.Equal(t, "alice@example.com", user.Email)
	require.NotEqual(t, "s3cretpass", user.PasswordHash)

	// Login is case-insensitive on email.
	authed, err := svc.Authenticate("ALICE@example.com", "s3cretpass")
	require.NoError(t, err)
	require.Equal(t, user.ID, authed.ID)
}

func TestAuthenticate_InvalidCredentials(t *testing.T) {
	db := testDB(t)
	svc := newUserService(db)

	_, err := svc.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "s3cretpass"})
	require.NoError(t, err)

	// Wrong password and unknown email produce the same sentinel.
	_, err = svc.Authenticate("alice@example.com", "wrongpass1")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate("nobody@example.com", "s3cretpass")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := testDB(t)
	svc := newUserService(db)

	_, err := svc.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "s3cretpass"})
	require.NoError(t, err)

	_, err = svc.Register(RegisterInput{Username: "alice2", Email: "alice@example.com", Password: "s3cretpass"})
	require.ErrorIs(t, err, ErrEmailTaken)

	// The rejected registration left no row behind.
	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	db := testDB(t)
	svc := newUserService(db)

	_, err := svc.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "s3cretpass"})
	require.NoError(t, err)

	_, err = svc.Register(RegisterInput{Username: "alice", Email: "other@example.com", Password: "s3cretpass"})
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegister_Validation(t *testing.T) {
	db := testDB(t)
	svc := newUserService(db)

	_, err := svc.Register(RegisterInput{Username: "  ", Email: "a@example.com", Password: "s3cretpass"})
	require.ErrorIs(t, err, ErrUsernameRequired)

	_, err = svc.Register(RegisterInput{Username: "alice", Email: "", Password: "s3cretpass"})
	require.ErrorIs(t, err, ErrEmailRequired)

	_, err = svc.Register(RegisterInput{Username: "alice", Email: "a@example.com", Password: "short"})
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestChangePassword(t *testing.T) {
	db := testDB(t)
	svc := newUserService(db)

	user, err := svc.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "oldpassword"})
	require.NoError(t, err)

	// Wrong current password is rejected.
	err = svc.ChangePassword(user.ID, "notcurrent", "newpassword")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(user.ID, "oldpassword", "newpassword"))

	_, err = svc.Authenticate("alice@example.com", "oldpassword")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate("alice@example.com", "newpassword")
	require.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	db := testDB(t)
	svc := newUserService(db)

	user, err := svc.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "s3cretpass"})
	require.NoError(t, err)
	_, err = svc.Register(RegisterInput{Username: "bob", Email: "bob@example.com", Password: "s3cretpass"})
	require.NoError(t, err)

	name := "Alice Doe"
	updated, err := svc.UpdateProfile(user.ID, UpdateProfileInput{FullName: &name})
	require.NoError(t, err)
	require.Equal(t, "Alice Doe", updated.FullName)

	taken := "bob"
	_, err = svc.UpdateProfile(user.ID, UpdateProfileInput{Username: &taken})
	require.ErrorIs(t, err, ErrUsernameTaken)

	takenEmail := "bob@example.com"
	_, err = svc.UpdateProfile(user.ID, UpdateProfileInput{Email: &takenEmail})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestDeleteUser_CascadesMembershipsAndTasks(t *testing.T) {
	db := testDB(t)
	svc := newUserService(db)

	user, err := svc.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "s3cretpass"})
	require.NoError(t, err)

	team := seedTeam(t, db, "backend", user.ID)
	require.NoError(t, db.Create(&models.Task{Title: "write docs", OwnerID: user.ID, TeamID: &team.ID}).Error)

	require.NoError(t, svc.DeleteUser(user.ID))

	_, err = svc.GetUser(user.ID)
	require.ErrorIs(t, err, ErrUserNotFound)

	var memberships, tasks int64
	require.NoError(t, db.Model(&models.TeamMember{}).Where("user_id = ?", user.ID).Count(&memberships).Error)
	require.NoError(t, db.Model(&models.Task{}).Where("owner_id = ?", user.ID).Count(&tasks).Error)
	require.Zero(t, memberships)
	require.Zero(t, tasks)
}
