package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Source struct {
	Id         uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     uuid.UUID        `gorm:"type:uuid;not null;index"`
	BucketId   *uuid.UUID       `gorm:"type:uuid;index"`
	Content    string           `gorm:"type:text;not null"`
	SourceType string           `gorm:"type:varchar(32);not null"`
	SourceUrl  *string          `gorm:"type:text"`
	Metadata   datatypes.JSON   `gorm:"type:jsonb"`
	Embedding  *pgvector.Vector `gorm:"type:vector(1536)"` // text-embedding-3-small
	CreatedAt  time.Time        `gorm:"autoCreateTime;index"`
	UpdatedAt  time.Time        `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt   `gorm:"index"`
}

func (Source) TableName() string {
	return "sources"
}
