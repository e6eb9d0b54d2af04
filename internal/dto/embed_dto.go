package dto

import "github.com/google/uuid"

// PublishEmbedSourceMessage is the payload of the source.embed topic.
type PublishEmbedSourceMessage struct {
	SourceId uuid.UUID `json:"sourceId"`
}
