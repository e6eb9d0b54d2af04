package nats

import (
	"testing"
	"time"

	"content-engine-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjectRoundTrip(t *testing.T) {
	assert.Equal(t, "events.conversation.titled", Subject(events.TypeConversationTitled))
	assert.Equal(t, events.TypeConversationTitled, EventType(Subject(events.TypeConversationTitled)))
}

func TestDecode(t *testing.T) {
	occurred := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	header := nats.Header{}
	header.Set("Occurred-At", occurred.Format(time.RFC3339Nano))

	event, err := decode("events.source.embedded", []byte(`{"source_id":"abc","dimensions":1536}`), header)
	require.NoError(t, err)

	assert.Equal(t, events.TypeSourceEmbedded, event.EventType())
	assert.Equal(t, "abc", event.Payload()["source_id"])
	assert.True(t, occurred.Equal(event.Timestamp()))
}

func TestDecode_InvalidPayload(t *testing.T) {
	_, err := decode("events.x", []byte(`not json`), nil)
	assert.Error(t, err)
}
