// tally.go — Resource-type counts for the inspected page.
package panel

import (
	"strings"

	"github.com/dev-console/netlog/internal/types"
)

const tallyHeading = "Resources on this page:"

// Tally counts resources per type in first-seen order.
func Tally(resources []types.Resource) *types.ResourceTally {
	t := types.NewResourceTally()
	for _, r := range resources {
		t.Add(r.Type)
	}
	return t
}

// Render formats the tally as the panel text block. Only the first row is
// indented under the heading.
func Render(t *types.ResourceTally) string {
	rows := t.Rows()
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, row.String())
	}
	return tallyHeading + "\n  " + strings.Join(lines, "\n")
}
