// select.go — Choosing the tab to instrument.
package debugger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dev-console/netlog/internal/types"
)

// NotHTTPMessage is what the user is told when the active tab cannot be
// instrumented.
const NotHTTPMessage = "Debugger can only be attached to HTTP/HTTPS pages."

var (
	// ErrNoTarget is returned when no page target matches.
	ErrNoTarget = errors.New("no debuggable tab found")

	// ErrNotHTTP is returned when the chosen tab is not an HTTP/HTTPS page.
	ErrNotHTTP = errors.New("debugger can only be attached to http/https pages")
)

// SelectTab picks the active tab from a /json/list snapshot.
// With an empty hint the first page target wins; otherwise the first page
// whose id equals hint or whose URL contains it. The chosen tab is returned
// alongside ErrNotHTTP when its URL is not http(s), so callers can report it.
func SelectTab(targets []types.Target, hint string) (types.Target, error) {
	for _, t := range targets {
		if !t.IsPage() {
			continue
		}
		if hint != "" && t.ID != hint && !strings.Contains(t.URL, hint) {
			continue
		}
		if !t.IsHTTP() {
			return t, ErrNotHTTP
		}
		return t, nil
	}
	if hint != "" {
		return types.Target{}, fmt.Errorf("%w matching %q", ErrNoTarget, hint)
	}
	return types.Target{}, ErrNoTarget
}
