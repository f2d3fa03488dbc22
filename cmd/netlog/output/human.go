// human.go — Human-readable output formatter.
package output

import (
	"fmt"
	"sort"
	"strings"
)

// HumanFormatter produces human-readable output.
type HumanFormatter struct{}

// Format writes a human-readable representation of the result.
// Results with TextContent print only the text, the way the panel shows it.
func (h *HumanFormatter) Format(w Writer, result *Result) error {
	var sb strings.Builder

	if !result.Success {
		sb.WriteString(fmt.Sprintf("[Error] %s %s: Failed\n", result.Command, result.Action))
		if result.Error != "" {
			sb.WriteString(fmt.Sprintf("   Error: %s\n", result.Error))
		}
	}

	if result.TextContent != "" {
		sb.WriteString(result.TextContent)
		if !strings.HasSuffix(result.TextContent, "\n") {
			sb.WriteString("\n")
		}
	} else if len(result.Data) > 0 {
		if result.Success {
			sb.WriteString(fmt.Sprintf("[OK] %s %s\n", result.Command, result.Action))
		}
		keys := make([]string, 0, len(result.Data))
		for k := range result.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("   %s: %v\n", k, result.Data[k]))
		}
	}

	_, err := w.Write([]byte(sb.String()))
	return err
}
