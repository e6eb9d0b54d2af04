package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InBucket struct {
	BucketID uuid.UUID
}

func (s InBucket) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("bucket_id = ?", s.BucketID)
}

// MissingEmbedding selects sources that still need a vector (backfill).
type MissingEmbedding struct{}

func (s MissingEmbedding) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("embedding IS NULL")
}

type InConversation struct {
	ConversationID uuid.UUID
}

func (s InConversation) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("conversation_id = ?", s.ConversationID)
}
