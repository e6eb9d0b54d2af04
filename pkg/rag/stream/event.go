package stream

import (
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"content-engine-be/internal/entity"
	"content-engine-be/pkg/rag/draft"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type EventType string

const (
	EventSources EventType = "sources"
	EventText    EventType = "text"
	EventDone    EventType = "done"
	EventError   EventType = "error"
)

// Event is one frame of a turn. Only the fields of its Type are serialized.
type Event struct {
	Type      EventType
	Sources   []SourceSummary
	Text      string
	MessageId *uuid.UUID
	Draft     *draft.Draft
	Error     string
}

// IsTerminal reports whether no event may follow this one.
func (e Event) IsTerminal() bool {
	return e.Type == EventDone || e.Type == EventError
}

type sourcesPayload struct {
	Type    EventType       `json:"type"`
	Sources []SourceSummary `json:"sources"`
}

type textPayload struct {
	Type EventType `json:"type"`
	Text string    `json:"text"`
}

type donePayload struct {
	Type      EventType    `json:"type"`
	MessageId *string      `json:"messageId"`
	Draft     *draft.Draft `json:"draft"`
}

type errorPayload struct {
	Type  EventType `json:"type"`
	Error string    `json:"error"`
}

func (e Event) MarshalJSON() ([]byte, error) {
	switch e.Type {
	case EventSources:
		return json.Marshal(sourcesPayload{Type: e.Type, Sources: lo.Ternary(e.Sources == nil, []SourceSummary{}, e.Sources)})
	case EventText:
		return json.Marshal(textPayload{Type: e.Type, Text: e.Text})
	case EventDone:
		var messageId *string
		if e.MessageId != nil {
			messageId = lo.ToPtr(e.MessageId.String())
		}
		return json.Marshal(donePayload{Type: e.Type, MessageId: messageId, Draft: e.Draft})
	case EventError:
		return json.Marshal(errorPayload{Type: e.Type, Error: e.Error})
	default:
		return nil, fmt.Errorf("unknown event type %q", e.Type)
	}
}

// SourceSummary is the UI projection of a retrieved source. Content is a preview.
type SourceSummary struct {
	Id              uuid.UUID              `json:"id"`
	Content         string                 `json:"content"`
	SourceType      entity.SourceType      `json:"sourceType"`
	SourceUrl       *string                `json:"sourceUrl"`
	BucketId        *uuid.UUID             `json:"bucketId"`
	BucketName      *string                `json:"bucketName"`
	CreatedAt       time.Time              `json:"createdAt"`
	RetrievalMethod entity.RetrievalMethod `json:"retrievalMethod"`
	Similarity      *float64               `json:"similarity,omitempty"`
}

// Summarize projects retrieved sources for the sources event, keeping their order.
func Summarize(sources []*entity.RetrievedSource, previewLength int) []SourceSummary {
	return lo.FilterMap(sources, func(s *entity.RetrievedSource, _ int) (SourceSummary, bool) {
		if s == nil || s.Source == nil {
			return SourceSummary{}, false
		}
		return SourceSummary{
			Id:              s.Source.Id,
			Content:         preview(s.Source.Content, previewLength),
			SourceType:      s.Source.SourceType,
			SourceUrl:       s.Source.SourceUrl,
			BucketId:        s.Source.BucketId,
			BucketName:      s.BucketName,
			CreatedAt:       s.Source.CreatedAt,
			RetrievalMethod: s.Method,
			Similarity:      s.Similarity,
		}, true
	})
}

func preview(content string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(content) <= limit {
		return content
	}
	return string([]rune(content)[:limit])
}
