package entity

import (
	"time"

	"github.com/google/uuid"
)

type VoiceConfigType string

const (
	VoiceConfigCompany  VoiceConfigType = "company"
	VoiceConfigPlatform VoiceConfigType = "platform"
)

// VoiceMode selects whose voice is applied. Compound suppresses the personal voice entirely.
type VoiceMode string

const (
	VoiceModePersonal VoiceMode = "personal"
	VoiceModeCompound VoiceMode = "compound"
)

type VoiceConfig struct {
	Id        uuid.UUID
	Type      VoiceConfigType
	Platform  *Platform
	Rules     []string
	UpdatedBy *uuid.UUID
	UpdatedAt time.Time
}

type Profile struct {
	Id            uuid.UUID
	DisplayName   string
	PersonalVoice []string
	ExploreModel  string
	DraftModel    string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}
