package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Task indexes for filtering and sorting
		{"tasks", "idx_tasks_owner_id", "owner_id"},
		{"tasks", "idx_tasks_team_id", "team_id"},
		{"tasks", "idx_tasks_status", "status"},
		{"tasks", "idx_tasks_due_date", "due_date"},

		// Membership lookups by either side of the join
		{"team_members", "idx_team_members_team_id", "team_id"},
		{"team_members", "idx_team_members_user_id", "user_id"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
