package bootstrap

import (
	"content-engine-be/internal/model"
	"content-engine-be/pkg/database"

	"gorm.io/gorm"
)

// MigrateSchema brings the database up to the current models and builds the
// similarity index on source embeddings.
func MigrateSchema(db *gorm.DB) error {
	if err := database.Migrate(db, model.All()...); err != nil {
		return err
	}
	return database.CreateVectorIndex(db, model.Source{}.TableName(), "embedding")
}
