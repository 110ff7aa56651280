package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AddIndexes adds the composite indexes used by owner-scoped, newest-first listings.
// Only PostgreSQL is handled; other drivers rely on the indexes declared in model tags.
func AddIndexes(db *gorm.DB, log *zap.Logger) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		{"todos", "idx_todos_user_created", "user_id, created_at DESC"},
		{"todos", "idx_todos_user_completed", "user_id, completed"},
		{"comments", "idx_comments_todo_created", "todo_id, created_at DESC"},
		{"tickets", "idx_tickets_user_created", "user_id, created_at DESC"},
		{"tickets", "idx_tickets_user_client", "user_id, client_name"},
		{"ticket_comments", "idx_ticket_comments_ticket_created", "ticket_id, created_at DESC"},
		{"activities", "idx_activities_user_created", "user_id, created_at DESC"},
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
			log.Debug("index already exists, skipping", zap.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("created index", zap.String("index", idx.name), zap.String("table", idx.table))
	}

	return nil
}

// MigrateDatabase runs schema migrations followed by index creation.
func MigrateDatabase(db *gorm.DB, log *zap.Logger) error {
	if err := Migrate(db, log); err != nil {
		return err
	}

	if err := AddIndexes(db, log); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	return nil
}
