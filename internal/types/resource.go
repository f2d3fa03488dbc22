// resource.go — Page resource types and per-type tally.
package types

import "strconv"

// Resource is one resource loaded by the inspected page.
type Resource struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// TypeCount is one row of a ResourceTally.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// String renders the row as "type: count".
func (c TypeCount) String() string {
	return c.Type + ": " + strconv.Itoa(c.Count)
}

// ResourceTally counts resources per type, keeping first-seen order.
type ResourceTally struct {
	order  []string
	counts map[string]int
}

// NewResourceTally returns an empty tally.
func NewResourceTally() *ResourceTally {
	return &ResourceTally{counts: make(map[string]int)}
}

// Add counts one resource of the given type.
func (t *ResourceTally) Add(resourceType string) {
	if _, ok := t.counts[resourceType]; !ok {
		t.order = append(t.order, resourceType)
	}
	t.counts[resourceType]++
}

// Rows returns the tally in first-seen order.
func (t *ResourceTally) Rows() []TypeCount {
	rows := make([]TypeCount, 0, len(t.order))
	for _, typ := range t.order {
		rows = append(rows, TypeCount{Type: typ, Count: t.counts[typ]})
	}
	return rows
}

// Len returns the number of distinct types.
func (t *ResourceTally) Len() int {
	return len(t.order)
}
