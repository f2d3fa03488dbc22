// log.go — Captured log entry types.
// A LogEntry is one row of the capture file: a console/log line, an XHR request
// or an XHR response. Bodies are kept as raw JSON so parsed payloads keep their
// original key order when written back out.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EntryType tags the origin of a captured entry.
type EntryType string

const (
	EntryLog      EntryType = "log"
	EntryRequest  EntryType = "request"
	EntryResponse EntryType = "response"
)

// LogEntry is a single captured event.
// Field order matches the capture file: type, url, body.
type LogEntry struct {
	Type EntryType       `json:"type"`
	URL  string          `json:"url"`
	Body json.RawMessage `json:"body"`
}

// NewLogEntry builds an entry from a pre-encoded body.
func NewLogEntry(t EntryType, url string, body json.RawMessage) LogEntry {
	return LogEntry{Type: t, URL: url, Body: body}
}

// TextBody encodes s as a JSON string without HTML escaping.
func TextBody(s string) json.RawMessage {
	b, err := MarshalNoEscape(s)
	if err != nil {
		// strings always encode
		return json.RawMessage(`""`)
	}
	return b
}

// FieldBody encodes a single-key object {name: value}.
func FieldBody(name, value string) json.RawMessage {
	b, err := MarshalNoEscape(map[string]string{name: value})
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return b
}

// ParseBody validates raw as JSON and returns it compacted.
// Invalid JSON is an error; callers decide whether to surface it.
func ParseBody(raw []byte) (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, fmt.Errorf("parse JSON body: %w", err)
	}
	return json.RawMessage(buf.Bytes()), nil
}

// MarshalNoEscape encodes v as compact JSON with HTML escaping disabled and
// no trailing newline.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
