package database

import (
	"fmt"

	"gorm.io/gorm"
)

var setupSQL = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
	`CREATE EXTENSION IF NOT EXISTS vector;`,
}

// Migrate installs the extensions the schema relies on, then auto-migrates models.
func Migrate(db *gorm.DB, models ...interface{}) error {
	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("setup %q: %w", sql, err)
		}
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// CreateVectorIndex adds an HNSW cosine index for similarity search.
func CreateVectorIndex(db *gorm.DB, table, column string) error {
	sql := fmt.Sprintf(
		`CREATE INDEX IF NOT EXISTS idx_%s_%s_hnsw ON %s USING hnsw (%s vector_cosine_ops);`,
		table, column, table, column,
	)
	return db.Exec(sql).Error
}
