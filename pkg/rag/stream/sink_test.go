package stream

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSSEWriter_Frames(t *testing.T) {
	var buf bytes.Buffer
	w := NewSSEWriter(bufio.NewWriter(&buf))

	require.NoError(t, w.Send(Event{Type: EventText, Text: "hi"}))
	require.NoError(t, w.Send(Event{Type: EventError, Error: "boom"}))

	assert.Equal(t, "data: {\"type\":\"text\",\"text\":\"hi\"}\n\ndata: {\"type\":\"error\",\"error\":\"boom\"}\n\n", buf.String())

	// nothing may follow a terminal event
	assert.ErrorIs(t, w.Send(Event{Type: EventText, Text: "late"}), ErrSinkClosed)
}

type brokenWriter struct{}

func (brokenWriter) Write(p []byte) (int, error) { return 0, assert.AnError }

func TestSSEWriter_FlushFailureClosesSink(t *testing.T) {
	w := NewSSEWriter(bufio.NewWriterSize(brokenWriter{}, 16))

	assert.Error(t, w.Send(Event{Type: EventText, Text: "hello"}))
	assert.ErrorIs(t, w.Send(Event{Type: EventText, Text: "again"}), ErrSinkClosed)
}
