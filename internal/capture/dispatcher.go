// dispatcher.go — Classifies protocol events into captured entries.
// Log.entryAdded and string console arguments are recorded inline. XHR
// responses and console arrays need a follow-up command; those run on their
// own goroutine because chromedp delivers events on a single goroutine that
// must not wait on a command reply.
package capture

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	cdplog "github.com/chromedp/cdproto/log"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/runtime"
	"go.uber.org/zap"

	"github.com/dev-console/netlog/internal/debugger"
	"github.com/dev-console/netlog/internal/types"
	"github.com/dev-console/netlog/internal/util"
)

// RecordFunc receives each classified entry.
type RecordFunc func(types.LogEntry)

// Dispatcher turns protocol events into LogEntry values.
type Dispatcher struct {
	cmd    Commander
	record RecordFunc
	logger *zap.Logger

	wg sync.WaitGroup
}

// NewDispatcher creates a dispatcher that issues follow-ups through cmd and
// hands every entry to record.
func NewDispatcher(cmd Commander, record RecordFunc, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{cmd: cmd, record: record, logger: logger}
}

// Dispatch classifies one event. Follow-up commands are bound to ctx.
// The returned error is a body that failed to parse; no entry was recorded.
func (d *Dispatcher) Dispatch(ctx context.Context, ev any) error {
	switch e := ev.(type) {
	case *cdplog.EventEntryAdded:
		d.onLogEntry(e)
	case *runtime.EventConsoleAPICalled:
		d.onConsoleAPI(ctx, e)
	case *network.EventRequestWillBeSent:
		if e.Type == network.ResourceTypeXHR {
			return d.onRequest(e)
		}
	case *network.EventResponseReceived:
		if e.Type == network.ResourceTypeXHR && e.RequestID != "" {
			d.fetchResponseBody(ctx, e.RequestID, responseURL(e))
		}
	}
	return nil
}

// Wait blocks until every follow-up started so far has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) onLogEntry(e *cdplog.EventEntryAdded) {
	if e.Entry == nil {
		d.record(types.NewLogEntry(types.EntryLog, "", types.TextBody("")))
		return
	}
	d.record(types.NewLogEntry(types.EntryLog, e.Entry.URL, types.TextBody(e.Entry.Text)))
}

func (d *Dispatcher) onConsoleAPI(ctx context.Context, e *runtime.EventConsoleAPICalled) {
	for _, arg := range e.Args {
		if arg == nil {
			continue
		}
		switch {
		case arg.Type == runtime.TypeString:
			d.record(types.NewLogEntry(types.EntryLog, "", stringValue(arg.Value)))
		case arg.Type == runtime.TypeObject && arg.Subtype == runtime.SubtypeArray:
			if arg.ObjectID != "" {
				d.fetchProperties(ctx, arg.ObjectID)
			}
		case arg.Type == runtime.TypeObject && arg.Preview != nil:
			for _, entry := range flattenPreview(arg.Preview) {
				d.record(entry)
			}
		}
	}
}

func (d *Dispatcher) onRequest(e *network.EventRequestWillBeSent) error {
	if e.Request == nil {
		return nil
	}
	body := types.TextBody("")
	if raw, ok := debugger.RequestPostData(e.Request); ok {
		parsed, err := types.ParseBody(raw)
		if err != nil {
			return fmt.Errorf("request %s post data: %w", e.RequestID, err)
		}
		body = parsed
	}
	d.record(types.NewLogEntry(types.EntryRequest, e.Request.URL, body))
	return nil
}

func (d *Dispatcher) fetchResponseBody(ctx context.Context, id network.RequestID, url string) {
	d.spawn(func() {
		raw, err := d.cmd.GetResponseBody(ctx, id)
		if err != nil {
			d.logger.Debug("response body unavailable",
				zap.String("request_id", string(id)),
				zap.Error(err),
			)
			return
		}
		if len(raw) == 0 {
			return
		}
		body, err := types.ParseBody(raw)
		if err != nil {
			d.logger.Error("unhandled: response body is not JSON",
				zap.String("request_id", string(id)),
				zap.String("url", url),
				zap.Error(err),
			)
			return
		}
		d.record(types.NewLogEntry(types.EntryResponse, url, body))
	})
}

func (d *Dispatcher) fetchProperties(ctx context.Context, id runtime.RemoteObjectID) {
	d.spawn(func() {
		props, err := d.cmd.GetProperties(ctx, id)
		if err != nil {
			d.logger.Debug("object properties unavailable",
				zap.String("object_id", string(id)),
				zap.Error(err),
			)
			return
		}
		for _, entry := range flattenProperties(props) {
			d.record(entry)
		}
	})
}

func (d *Dispatcher) spawn(fn func()) {
	d.wg.Add(1)
	util.SafeGo(d.logger, func() {
		defer d.wg.Done()
		fn()
	})
}

// stringValue re-encodes a string RemoteObject value without HTML escaping.
// Values that do not decode as a JSON string are kept as sent.
func stringValue(raw []byte) json.RawMessage {
	if len(raw) == 0 {
		return types.TextBody("")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return json.RawMessage(raw)
	}
	return types.TextBody(s)
}

func responseURL(e *network.EventResponseReceived) string {
	if e.Response == nil {
		return ""
	}
	return e.Response.URL
}
