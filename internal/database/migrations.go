package database

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yukikurage/project-task-api/internal/models"
	"gorm.io/gorm"
)

type index struct {
	table   string
	name    string
	columns string
}

// Composite indexes backing the list endpoints: scope column first, then the
// column the date-range filter compares against.
var listIndexes = []index{
	{"projects", "idx_projects_user_created", "user_id, created_at"},
	{"tasks", "idx_tasks_project_created", "project_id, created_at"},
	{"tasks", "idx_tasks_project_due", "project_id, due_date"},
	{"tasks", "idx_tasks_status", "status"},
}

// Migrate creates or updates the tables and their list indexes.
func Migrate(db *gorm.DB, log zerolog.Logger) error {
	log.Info().Msg("running database migrations")
	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Task{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := AddIndexes(db, log); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	log.Info().Msg("database migrations completed")
	return nil
}

// AddIndexes adds the list indexes that are missing.
func AddIndexes(db *gorm.DB, log zerolog.Logger) error {
	migrator := db.Migrator()

	for _, idx := range listIndexes {
		if migrator.HasIndex(idx.table, idx.name) {
			log.Debug().Str("index", idx.name).Msg("index already exists, skipping")
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info().Str("index", idx.name).Str("table", idx.table).Str("columns", idx.columns).Msg("created index")
	}

	return nil
}
