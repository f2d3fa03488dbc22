// target.go — Debugging target types.
// Mirrors the objects returned by the DevTools HTTP endpoint (/json/list).
package types

import "strings"

// Target is a debuggable browser target (tab, worker, iframe).
type Target struct {
	ID                   string `json:"id"`
	Type                 string `json:"type"`
	Title                string `json:"title"`
	URL                  string `json:"url"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl,omitempty"`
}

// IsPage reports whether the target is a top-level tab.
func (t Target) IsPage() bool {
	return t.Type == "page"
}

// IsHTTP reports whether the target's address starts with "http".
// Covers both http:// and https:// pages; chrome://, file:// and about: are rejected.
func (t Target) IsHTTP() bool {
	return strings.HasPrefix(t.URL, "http")
}
