package stream

import (
	"bufio"
	"encoding/json"
	"errors"
)

// Sink receives the events of one turn. A Send error means the consumer is
// gone and the turn is abandoned.
type Sink interface {
	Send(event Event) error
}

var ErrSinkClosed = errors.New("event sink closed")

// SSEWriter frames events as text/event-stream "data:" lines.
type SSEWriter struct {
	w      *bufio.Writer
	closed bool
}

func NewSSEWriter(w *bufio.Writer) *SSEWriter {
	return &SSEWriter{w: w}
}

func (s *SSEWriter) Send(event Event) error {
	if s.closed {
		return ErrSinkClosed
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if _, err := s.w.WriteString("data: "); err != nil {
		return s.fail(err)
	}
	if _, err := s.w.Write(payload); err != nil {
		return s.fail(err)
	}
	if _, err := s.w.WriteString("\n\n"); err != nil {
		return s.fail(err)
	}
	// Flush per event so deltas reach the client as they arrive.
	if err := s.w.Flush(); err != nil {
		return s.fail(err)
	}

	if event.IsTerminal() {
		s.closed = true
	}
	return nil
}

func (s *SSEWriter) fail(err error) error {
	s.closed = true
	return err
}

// Recorder keeps events in memory for tests of the relay and its callers.
type Recorder struct {
	Events  []Event
	FailAt  int // Send fails once this many events were recorded; 0 disables
	FailErr error
}

func (r *Recorder) Send(event Event) error {
	if r.FailAt > 0 && len(r.Events) >= r.FailAt {
		if r.FailErr != nil {
			return r.FailErr
		}
		return ErrSinkClosed
	}
	r.Events = append(r.Events, event)
	return nil
}

func (r *Recorder) Types() []EventType {
	types := make([]EventType, len(r.Events))
	for i, e := range r.Events {
		types[i] = e.Type
	}
	return types
}
