package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type VoiceConfig struct {
	Id        uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Type      string                      `gorm:"type:varchar(16);not null;uniqueIndex:idx_voice_configs_type_platform,priority:1"`
	Platform  *string                     `gorm:"type:varchar(16);uniqueIndex:idx_voice_configs_type_platform,priority:2"`
	Rules     datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	UpdatedBy *uuid.UUID                  `gorm:"type:uuid"`
	UpdatedAt time.Time                   `gorm:"autoUpdateTime"`
}

func (VoiceConfig) TableName() string {
	return "voice_configs"
}

type Profile struct {
	Id            uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	DisplayName   string                      `gorm:"type:varchar(255);not null"`
	PersonalVoice datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	ExploreModel  string                      `gorm:"type:varchar(128)"`
	DraftModel    string                      `gorm:"type:varchar(128)"`
	CreatedAt     time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt     time.Time                   `gorm:"autoUpdateTime"`
}

func (Profile) TableName() string {
	return "profiles"
}
