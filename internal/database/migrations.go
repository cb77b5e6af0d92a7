package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"
)

// AddIndexes adds indexes backing the list endpoint's common filters
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		{"tasks", "idx_tasks_completed", "completed"},
		{"tasks", "idx_tasks_due_date", "due_date"},
		{"tasks", "idx_tasks_priority", "priority"},
		{"tasks", "idx_tasks_created_at", "created_at"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}
		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}
