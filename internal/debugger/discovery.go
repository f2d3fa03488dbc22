// discovery.go — DevTools HTTP endpoint client.
// Lists debuggable targets and resolves the browser WebSocket URL, the same
// way DevTools front-ends do before opening a protocol connection.
package debugger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/dev-console/netlog/internal/types"
)

// DefaultRemoteURL is Chrome's conventional --remote-debugging-port endpoint.
const DefaultRemoteURL = "http://127.0.0.1:9222"

const discoveryTimeout = 10 * time.Second

// VersionInfo is the payload of /json/version.
type VersionInfo struct {
	Browser              string `json:"Browser"`
	ProtocolVersion      string `json:"Protocol-Version"`
	UserAgent            string `json:"User-Agent"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

// Discovery queries a browser's DevTools HTTP endpoint.
type Discovery struct {
	client *resty.Client
}

// NewDiscovery returns a client for the endpoint at baseURL (e.g. http://127.0.0.1:9222).
func NewDiscovery(baseURL string) *Discovery {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(discoveryTimeout).
		SetHeader("Accept", "application/json")
	return &Discovery{client: client}
}

// Version fetches /json/version.
func (d *Discovery) Version(ctx context.Context) (VersionInfo, error) {
	var info VersionInfo
	if err := d.getJSON(ctx, "/json/version", &info); err != nil {
		return VersionInfo{}, err
	}
	if info.WebSocketDebuggerURL == "" {
		return VersionInfo{}, fmt.Errorf("/json/version: no webSocketDebuggerUrl in response")
	}
	return info, nil
}

// Targets fetches /json/list. DevTools lists the most recently focused tab first.
func (d *Discovery) Targets(ctx context.Context) ([]types.Target, error) {
	var targets []types.Target
	if err := d.getJSON(ctx, "/json/list", &targets); err != nil {
		return nil, err
	}
	return targets, nil
}

// ActiveTab lists the browser's tabs and selects one with SelectTab.
func (d *Discovery) ActiveTab(ctx context.Context, hint string) (types.Target, error) {
	targets, err := d.Targets(ctx)
	if err != nil {
		return types.Target{}, err
	}
	return SelectTab(targets, hint)
}

func (d *Discovery) getJSON(ctx context.Context, path string, out any) error {
	resp, err := d.client.R().
		SetContext(ctx).
		ForceContentType("application/json").
		SetResult(out).
		Get(path)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("GET %s: unexpected status %s", path, resp.Status())
	}
	return nil
}
