// csv.go — CSV output formatter.
// Produces CSV output for piping. A header is written whenever it differs
// from the previous one, so a stream of same-shaped rows gets one header.
package output

import (
	"encoding/csv"
	"fmt"
	"sort"
	"strings"
)

// CSVFormatter produces CSV output.
type CSVFormatter struct {
	lastHeader string
}

// Format writes a result as CSV. Results carrying a Table write its rows;
// others write a header of data keys and a single row.
func (f *CSVFormatter) Format(w Writer, result *Result) error {
	table := result.Table
	if table == nil {
		table = dataTable(result)
	}

	var sb strings.Builder
	cw := csv.NewWriter(&sb)

	if key := strings.Join(table.Header, ","); key != f.lastHeader {
		if err := cw.Write(table.Header); err != nil {
			return fmt.Errorf("write CSV header: %w", err)
		}
		f.lastHeader = key
	}
	for _, row := range table.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}

	_, err := w.Write([]byte(sb.String()))
	return err
}

// dataTable builds header: success, command, action, error, [data keys...].
func dataTable(r *Result) *Table {
	dataKeys := make([]string, 0, len(r.Data))
	for k := range r.Data {
		dataKeys = append(dataKeys, k)
	}
	sort.Strings(dataKeys)

	header := append([]string{"success", "command", "action", "error"}, dataKeys...)
	row := []string{fmt.Sprintf("%t", r.Success), r.Command, r.Action, r.Error}
	for _, k := range dataKeys {
		row = append(row, fmt.Sprintf("%v", r.Data[k]))
	}
	return &Table{Header: header, Rows: [][]string{row}}
}

// GetFormatter returns the appropriate formatter for the given format string.
func GetFormatter(format string) Formatter {
	switch format {
	case "json":
		return &JSONFormatter{}
	case "csv":
		return &CSVFormatter{}
	case "human":
		return &HumanFormatter{}
	default:
		return &HumanFormatter{} // fallback
	}
}
