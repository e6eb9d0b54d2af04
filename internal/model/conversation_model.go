package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Conversation struct {
	Id                uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId            uuid.UUID      `gorm:"type:uuid;not null;index"`
	Mode              string         `gorm:"type:varchar(16);not null;default:'explore'"`
	BucketId          *uuid.UUID     `gorm:"type:uuid;index"`
	IncludeAllBuckets bool           `gorm:"not null;default:true"`
	Platform          *string        `gorm:"type:varchar(16)"`
	Title             *string        `gorm:"type:varchar(255)"`
	CreatedAt         time.Time      `gorm:"autoCreateTime"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime"`
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}

func (Conversation) TableName() string {
	return "conversations"
}
