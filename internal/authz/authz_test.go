package authz

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"teamdash/internal/models"
)

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

func seedTeam(t *testing.T, db *gorm.DB, name string) *models.Team {
	t.Helper()

	team := &models.Team{Name: name}
	require.NoError(t, db.Create(team).Error)
	return team
}

func seedMember(t *testing.T, db *gorm.DB, teamID, userID uint64, moderator bool) {
	t.Helper()

	require.NoError(t, db.Create(&models.TeamMember{
		TeamID:      teamID,
		UserID:      userID,
		IsModerator: moderator,
		JoinedAt:    time.Now(),
	}).Error)
}
