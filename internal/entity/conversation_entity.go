package entity

import (
	"time"

	"github.com/google/uuid"
)

type ConversationMode string

const (
	ConversationModeExplore ConversationMode = "explore"
	ConversationModeDraft   ConversationMode = "draft"
)

func (m ConversationMode) IsValid() bool {
	return m == ConversationModeExplore || m == ConversationModeDraft
}

type Platform string

const (
	PlatformLinkedIn  Platform = "linkedin"
	PlatformTwitter   Platform = "twitter"
	PlatformLongform  Platform = "longform"
	PlatformShortform Platform = "shortform"
)

func (p Platform) IsValid() bool {
	switch p {
	case PlatformLinkedIn, PlatformTwitter, PlatformLongform, PlatformShortform:
		return true
	}
	return false
}

type Conversation struct {
	Id                uuid.UUID
	UserId            uuid.UUID
	Mode              ConversationMode
	BucketId          *uuid.UUID
	IncludeAllBuckets bool
	Platform          *Platform
	Title             *string
	CreatedAt         time.Time
	UpdatedAt         *time.Time
}
