// ABOUTME: Server-Sent Events framing: a stream parser and an http.ResponseWriter-side writer.
// ABOUTME: Used for the board's push delivery mode, which streams full-state snapshots.
package sse

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Event is a single Server-Sent Event. The board protocol only uses the
// event name and data payload.
type Event struct {
	Type string // from "event:" lines, defaults to "message"
	Data string // "data:" lines joined with newlines
}

// Reader parses SSE events from a stream.
type Reader struct {
	scanner *bufio.Scanner

	eventType string
	dataLines []string
}

// NewReader creates a Reader over the given stream. Snapshot payloads can be
// large, so the line buffer is allowed to grow well past bufio's default.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
	return &Reader{scanner: sc}
}

// Next returns the next event from the stream, or io.EOF when it ends.
// A trailing event without a terminating blank line is still delivered.
func (r *Reader) Next() (Event, error) {
	for r.scanner.Scan() {
		line := strings.TrimSuffix(r.scanner.Text(), "\r")

		// Blank line dispatches the accumulated event.
		if line == "" {
			if len(r.dataLines) == 0 {
				continue
			}
			return r.dispatch(), nil
		}

		// Comment / heartbeat lines.
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, found := strings.Cut(line, ":")
		if !found {
			field, value = line, ""
		}
		value = strings.TrimPrefix(value, " ")

		switch field {
		case "event":
			r.eventType = value
		case "data":
			r.dataLines = append(r.dataLines, value)
		default:
			// id and retry are not part of the board protocol; ignored.
		}
	}

	if err := r.scanner.Err(); err != nil {
		return Event{}, err
	}
	if len(r.dataLines) > 0 {
		return r.dispatch(), nil
	}
	return Event{}, io.EOF
}

func (r *Reader) dispatch() Event {
	evt := Event{
		Type: r.eventType,
		Data: strings.Join(r.dataLines, "\n"),
	}
	if evt.Type == "" {
		evt.Type = "message"
	}
	r.eventType = ""
	r.dataLines = nil
	return evt
}

// Writer emits SSE frames to an HTTP response, flushing after each event.
type Writer struct {
	w       io.Writer
	flusher http.Flusher
}

// NewWriter prepares w for event streaming and sets the SSE response headers.
// Returns an error when the ResponseWriter does not support flushing.
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support streaming")
	}
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	return &Writer{w: w, flusher: flusher}, nil
}

// Send writes one event. Multi-line data is split into one data: line per
// line, per the SSE framing rules.
func (w *Writer) Send(evt Event) error {
	if evt.Type != "" && evt.Type != "message" {
		if _, err := fmt.Fprintf(w.w, "event: %s\n", evt.Type); err != nil {
			return err
		}
	}
	for _, line := range strings.Split(evt.Data, "\n") {
		if _, err := fmt.Fprintf(w.w, "data: %s\n", line); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w.w, "\n"); err != nil {
		return err
	}
	w.flusher.Flush()
	return nil
}

// Heartbeat writes a comment line to keep the connection alive through
// proxies that drop idle streams.
func (w *Writer) Heartbeat() error {
	if _, err := io.WriteString(w.w, ": keepalive\n\n"); err != nil {
		return err
	}
	w.flusher.Flush()
	return nil
}
