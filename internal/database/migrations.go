package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AddIndexes adds the query-path indexes that AutoMigrate does not create.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Swap lookups by participant and status
		{"swap_requests", "idx_swaps_from_user_status", "from_user_id, status"},
		{"swap_requests", "idx_swaps_to_user_status", "to_user_id, status"},
		{"swap_requests", "idx_swaps_status_created_at", "status, created_at"},

		// Browse/search paths over users
		{"users", "idx_users_profile_type_active", "profile_type, is_active"},
		{"users", "idx_users_created_at", "created_at"},

		// Skill filters
		{"user_skills", "idx_user_skills_name", "name"},
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

		log.Info().Str("index", idx.name).Str("table", idx.table).Msg("created index")
	}

	return nil
}
