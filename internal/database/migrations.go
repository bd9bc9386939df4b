package database

import (
	"fmt"

	"github.com/yukikurage/taskboard-api/internal/models"
	"gorm.io/gorm"
)

// AddIndexes adds the composite indexes used by the board and stats queries.
// It returns the names of the indexes it created.
func AddIndexes(db *gorm.DB) ([]string, error) {
	indexes := []struct {
		model   interface{}
		name    string
		columns string
	}{
		// Task lookups are always scoped to the owner
		{&models.Task{}, "idx_tasks_user_list", "user_id, list_id"},
		{&models.Task{}, "idx_tasks_user_created", "user_id, created_at"},

		// Lists render in board order
		{&models.List{}, "idx_lists_board_position", "board_id, position"},

		// Growth stats bucket by creation time
		{&models.User{}, "idx_users_created_at", "created_at"},
		{&models.Board{}, "idx_boards_created_at", "created_at"},
	}

	var created []string
	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			continue
		}

		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(idx.model); err != nil {
			return created, fmt.Errorf("failed to parse model for index %s: %w", idx.name, err)
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, stmt.Schema.Table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return created, fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
		created = append(created, idx.name)
	}

	return created, nil
}

// MigrateDatabase runs table migrations followed by index creation.
func MigrateDatabase(db *gorm.DB) ([]string, error) {
	if err := Migrate(db); err != nil {
		return nil, err
	}

	created, err := AddIndexes(db)
	if err != nil {
		return created, fmt.Errorf("failed to add indexes: %w", err)
	}

	return created, nil
}
