// flatten.go — Object previews to one log entry per property.
package capture

import (
	"github.com/chromedp/cdproto/runtime"

	"github.com/dev-console/netlog/internal/types"
)

// flattenPreview emits {name: value} for each previewed property.
func flattenPreview(p *runtime.ObjectPreview) []types.LogEntry {
	if p == nil {
		return nil
	}
	out := make([]types.LogEntry, 0, len(p.Properties))
	for _, prop := range p.Properties {
		if prop == nil {
			continue
		}
		out = append(out, types.NewLogEntry(types.EntryLog, "", types.FieldBody(prop.Name, prop.Value)))
	}
	return out
}

// flattenProperties flattens the preview of every property value that has one.
// Runtime.getProperties on an array yields one descriptor per element plus
// "length"; only object elements carry a preview.
func flattenProperties(props []*runtime.PropertyDescriptor) []types.LogEntry {
	var out []types.LogEntry
	for _, desc := range props {
		if desc == nil || desc.Value == nil {
			continue
		}
		out = append(out, flattenPreview(desc.Value.Preview)...)
	}
	return out
}
