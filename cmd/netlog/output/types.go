// types.go — Shared types for output formatting.
package output

// Result represents the outcome of one netlog command or one panel record.
type Result struct {
	Success bool           `json:"success"`
	Command string         `json:"command"`
	Action  string         `json:"action"`
	Data    map[string]any `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
	// TextContent is the human rendering; not serialized.
	TextContent string `json:"-"`
	// Table holds tabular rows for CSV output; not serialized.
	Table *Table `json:"-"`
}

// Table is a header plus rows of CSV cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// Formatter is the interface for all output formatters.
type Formatter interface {
	Format(w Writer, result *Result) error
}

// Writer is a minimal write interface (matches io.Writer).
type Writer interface {
	Write(p []byte) (n int, err error)
}
