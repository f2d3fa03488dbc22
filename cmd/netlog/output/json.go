// json.go — JSON output formatter.
// Produces one JSON object per result, newline-delimited, so a watching
// panel can be piped into jq.
package output

import (
	"bytes"
	"encoding/json"
)

// JSONFormatter produces JSON output.
type JSONFormatter struct{}

// Format writes a JSON representation of the result.
func (f *JSONFormatter) Format(w Writer, result *Result) error {
	out := map[string]any{
		"success": result.Success,
		"command": result.Command,
		"action":  result.Action,
	}

	if result.Error != "" {
		out["error"] = result.Error
	}

	// Merge data fields into the output
	for k, v := range result.Data {
		out[k] = v
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
