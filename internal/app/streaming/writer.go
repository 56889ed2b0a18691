package streaming

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// SetSSEHeaders prepares a response for an event stream.
func SetSSEHeaders(h http.Header) {
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
}

// EventWriter emits data frames of the form `data: {"content":"..."}`.
type EventWriter struct {
	w       io.Writer
	flusher http.Flusher
	events  int
}

func NewEventWriter(w io.Writer) *EventWriter {
	ew := &EventWriter{w: w}
	if f, ok := w.(http.Flusher); ok {
		ew.flusher = f
	}
	return ew
}

// WriteDelta sends one content event.
func (ew *EventWriter) WriteDelta(content string) error {
	payload, err := json.Marshal(Delta{Content: content})
	if err != nil {
		return fmt.Errorf("encoding delta: %w", err)
	}
	return ew.writeFrame(payload)
}

// WriteDone sends the terminal sentinel.
func (ew *EventWriter) WriteDone() error {
	return ew.writeFrame([]byte(DoneSentinel))
}

// Events returns how many frames were written, sentinel included.
func (ew *EventWriter) Events() int {
	return ew.events
}

func (ew *EventWriter) writeFrame(payload []byte) error {
	if _, err := fmt.Fprintf(ew.w, "%s %s\n\n", dataField, payload); err != nil {
		return fmt.Errorf("writing event: %w", err)
	}
	ew.events++
	if ew.flusher != nil {
		ew.flusher.Flush()
	}
	return nil
}
