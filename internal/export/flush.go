// flush.go — Detach-time flush of a session buffer to a downloaded file.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/dev-console/netlog/internal/types"
)

// Result describes a completed flush.
type Result struct {
	SavedTo       string `json:"saved_to"`
	Filename      string `json:"filename"`
	EntriesCount  int    `json:"entries_count"`
	FileSizeBytes int64  `json:"file_size_bytes"`
}

// Flush renders entries, wraps them as a JSON blob, converts the blob to a
// data URL and hands it to dl under a name derived from now.
func Flush(ctx context.Context, entries []types.LogEntry, now time.Time, dl Downloader) (Result, error) {
	body, err := FormatBody(entries)
	if err != nil {
		return Result{}, err
	}
	blob := NewJSONBlob(body)
	name := Filename(now)

	path, err := dl.Download(ctx, blob.DataURL(), name)
	if err != nil {
		return Result{}, fmt.Errorf("download %s: %w", name, err)
	}

	return Result{
		SavedTo:       path,
		Filename:      name,
		EntriesCount:  len(entries),
		FileSizeBytes: int64(blob.Size()),
	}, nil
}
