// results.go — Result builders for netlog's commands.
package output

import (
	"strconv"

	"github.com/dev-console/netlog/internal/export"
	"github.com/dev-console/netlog/internal/panel"
	"github.com/dev-console/netlog/internal/types"
	"github.com/dev-console/netlog/internal/util"
)

// CaptureResult reports a flushed capture file.
func CaptureResult(res export.Result) *Result {
	return &Result{
		Success: true,
		Command: "capture",
		Action:  "save",
		Data: map[string]any{
			"saved_to":        res.SavedTo,
			"filename":        res.Filename,
			"entries_count":   res.EntriesCount,
			"file_size_bytes": res.FileSizeBytes,
		},
	}
}

// TallyResult reports the resource-type tally of the inspected page.
func TallyResult(t *types.ResourceTally) *Result {
	rows := t.Rows()
	table := &Table{Header: []string{"type", "count"}}
	for _, row := range rows {
		table.Rows = append(table.Rows, []string{row.Type, strconv.Itoa(row.Count)})
	}
	return &Result{
		Success:     true,
		Command:     "panel",
		Action:      "resources",
		Data:        map[string]any{"resources": rows},
		TextContent: panel.Render(t),
		Table:       table,
	}
}

// ExchangeResult reports one finished XHR.
func ExchangeResult(ex panel.Exchange) *Result {
	query := util.FormatQuery(ex.Query)
	status := strconv.FormatInt(ex.Status, 10)
	return &Result{
		Success: true,
		Command: "panel",
		Action:  "xhr",
		Data: map[string]any{
			"method":      ex.Method,
			"url":         ex.URL,
			"query":       ex.Query,
			"post_data":   ex.PostData,
			"status":      ex.Status,
			"status_text": ex.StatusText,
		},
		TextContent: ex.String(),
		Table: &Table{
			Header: []string{"method", "url", "query", "post_data", "status", "status_text"},
			Rows:   [][]string{{ex.Method, ex.URL, query, ex.PostData, status, ex.StatusText}},
		},
	}
}

// ErrorResult reports a failed command.
func ErrorResult(command, action string, err error) *Result {
	return &Result{
		Success: false,
		Command: command,
		Action:  action,
		Error:   err.Error(),
	}
}
