package entity

import (
	"time"

	"github.com/google/uuid"
)

type SourceType string

const (
	SourceTypeNote        SourceType = "note"
	SourceTypeLink        SourceType = "link"
	SourceTypeTweet       SourceType = "tweet"
	SourceTypeArticleClip SourceType = "article_clip"
	SourceTypePodcastNote SourceType = "podcast_note"
	SourceTypeVoiceMemo   SourceType = "voice_memo"
)

func (t SourceType) IsValid() bool {
	switch t {
	case SourceTypeNote, SourceTypeLink, SourceTypeTweet,
		SourceTypeArticleClip, SourceTypePodcastNote, SourceTypeVoiceMemo:
		return true
	}
	return false
}

type Source struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	BucketId   *uuid.UUID
	Content    string
	SourceType SourceType
	SourceUrl  *string
	Metadata   map[string]interface{}
	Embedding  []float32
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}

// ScoredSource is a similarity search hit. Similarity is cosine similarity in [0, 1].
type ScoredSource struct {
	Source     *Source
	Similarity float64
}

type RetrievalMethod string

const (
	RetrievalPinned   RetrievalMethod = "pinned"
	RetrievalBucket   RetrievalMethod = "bucket"
	RetrievalSemantic RetrievalMethod = "semantic"
)

// RetrievedSource is a source selected for one turn, tagged with the lane that selected it.
// Similarity is set only for the semantic lane.
type RetrievedSource struct {
	Source     *Source
	Method     RetrievalMethod
	BucketName *string
	Similarity *float64
}
