// blob.go — Typed byte payloads and base64 data URLs.
package export

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// MIMEJSON tags capture files.
const MIMEJSON = "application/json"

// ErrNotDataURL is returned when a download URL is not a base64 data URL.
var ErrNotDataURL = errors.New("not a base64 data URL")

// Blob is an in-memory file body tagged with a MIME type.
type Blob struct {
	Type string
	Data []byte
}

// NewJSONBlob wraps data as an application/json blob.
func NewJSONBlob(data []byte) Blob {
	return Blob{Type: MIMEJSON, Data: data}
}

// Size returns the payload length in bytes.
func (b Blob) Size() int {
	return len(b.Data)
}

// DataURL encodes the blob as data:<type>;base64,<payload>.
func (b Blob) DataURL() string {
	return "data:" + b.Type + ";base64," + base64.StdEncoding.EncodeToString(b.Data)
}

// DecodeDataURL reverses Blob.DataURL.
// Only the base64 form is accepted; that is the only form DataURL produces.
func DecodeDataURL(u string) (Blob, error) {
	rest, ok := strings.CutPrefix(u, "data:")
	if !ok {
		return Blob{}, ErrNotDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Blob{}, fmt.Errorf("%w: missing payload separator", ErrNotDataURL)
	}
	mime, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return Blob{}, fmt.Errorf("%w: payload is not base64", ErrNotDataURL)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Blob{}, fmt.Errorf("decode data URL payload: %w", err)
	}
	return Blob{Type: mime, Data: data}, nil
}
