// Package sse reads Server-Sent Events from a streaming HTTP body.
package sse

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"
)

const (
	initialBufferSize = 64 * 1024
	// DefaultMaxLineSize bounds a single SSE line. Model output can arrive as
	// one large data line, so this is well above bufio's 64KiB default.
	DefaultMaxLineSize = 1024 * 1024
)

// Event represents a single server-sent event.
type Event struct {
	// Event is the SSE event type (from "event:" line). Empty for data-only events.
	Event string
	// Data is the event payload. Multi-line data is joined with newlines.
	Data string
	// ID is the event ID (from "id:" line).
	ID string
	// Retry is the reconnection hint (from "retry:" line), zero when absent.
	Retry time.Duration
}

// Reader reads server-sent events from a stream.
type Reader interface {
	// Next returns the next SSE event. Returns io.EOF when the stream ends.
	Next() (*Event, error)
	// Close releases the underlying resources.
	Close() error
}

type reader struct {
	scanner *bufio.Scanner
	body    io.ReadCloser
}

// NewReader creates an SSE reader with DefaultMaxLineSize.
func NewReader(body io.ReadCloser) Reader {
	return NewReaderSize(body, DefaultMaxLineSize)
}

// NewReaderSize creates an SSE reader whose lines may be up to maxLine bytes.
func NewReaderSize(body io.ReadCloser, maxLine int) Reader {
	if maxLine <= 0 {
		maxLine = DefaultMaxLineSize
	}
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, min(initialBufferSize, maxLine)), maxLine)
	return &reader{scanner: scanner, body: body}
}

// Next returns the next SSE event. Returns io.EOF when the stream ends.
// Events without a data field are dropped, as browsers do.
func (r *reader) Next() (*Event, error) {
	var (
		event   Event
		hasData bool
		data    strings.Builder
	)

	for r.scanner.Scan() {
		line := r.scanner.Text()

		if line == "" {
			if hasData {
				event.Data = data.String()
				return &event, nil
			}
			event = Event{}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value := parseLine(line)
		switch field {
		case "data":
			if hasData {
				data.WriteByte('\n')
			}
			data.WriteString(value)
			hasData = true
		case "event":
			event.Event = value
		case "id":
			event.ID = value
		case "retry":
			if ms, err := strconv.Atoi(value); err == nil && ms >= 0 {
				event.Retry = time.Duration(ms) * time.Millisecond
			}
		}
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	// A final event without its trailing blank line still counts.
	if hasData {
		event.Data = data.String()
		return &event, nil
	}
	return nil, io.EOF
}

// Close releases the underlying stream.
func (r *reader) Close() error {
	return r.body.Close()
}

func parseLine(line string) (field, value string) {
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return line, ""
	}
	field = line[:idx]
	value = strings.TrimPrefix(line[idx+1:], " ")
	return field, value
}
