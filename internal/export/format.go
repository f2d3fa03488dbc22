// format.go — Capture file rendering.
// Renders the session buffer as a JSON array literal: one compact entry per
// line, each indented by two spaces. Entries are encoded individually rather
// than by a recursive pretty-printer, so a row is always a single line.
package export

import (
	"bytes"
	"fmt"

	"github.com/dev-console/netlog/internal/types"
)

const rowIndent = "  "

// FormatBody renders entries as the text of the capture file.
// An empty buffer renders as "[\n\n]", which is still a valid JSON array.
func FormatBody(entries []types.LogEntry) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("[\n")
	for i, entry := range entries {
		if i > 0 {
			buf.WriteString(",\n")
		}
		row, err := types.MarshalNoEscape(entry)
		if err != nil {
			return nil, fmt.Errorf("encode entry %d: %w", i, err)
		}
		buf.WriteString(rowIndent)
		buf.Write(row)
	}
	buf.WriteString("\n]")
	return buf.Bytes(), nil
}
