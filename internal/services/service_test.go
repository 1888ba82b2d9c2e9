package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"teamdash/internal/auth"
	"teamdash/internal/models"
	"teamdash/internal/repository"
)

// testDB opens an in-memory database with the full schema migrated.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.TeamMember{},
		&models.Task{},
	)
	require.NoError(t, err)

	return db
}

// testHasher uses cheap parameters so tests stay fast.
func testHasher() *auth.PasswordHasher {
	return auth.NewPasswordHasher(auth.Argon2Params{
		Memory:      1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		PasswordHash: "unused",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// seedTeam creates a team whose creator is its first moderator.
func seedTeam(t *testing.T, db *gorm.DB, name string, creatorID uint64) *models.Team {
	t.Helper()

	team := &models.Team{Name: name}
	require.NoError(t, repository.NewTeamRepository(db).CreateWithModerator(team, creatorID))
	return team
}
