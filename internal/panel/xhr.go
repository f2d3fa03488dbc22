// xhr.go — Live summaries of finished XHR exchanges.
// Requests are tracked from Network.requestWillBeSent until
// Network.loadingFinished, then emitted once and forgotten. Failed loads are
// dropped without output.
package panel

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/chromedp/cdproto/network"
	"go.uber.org/zap"

	"github.com/dev-console/netlog/internal/debugger"
	"github.com/dev-console/netlog/internal/types"
	"github.com/dev-console/netlog/internal/util"
)

// Exchange summarizes one finished XHR request and its response.
type Exchange struct {
	RequestID  string           `json:"request_id"`
	Method     string           `json:"method"`
	URL        string           `json:"url"`
	Origin     string           `json:"origin,omitempty"`
	Query      []util.NameValue `json:"query"`
	PostData   string           `json:"post_data"`
	Status     int64            `json:"status"`
	StatusText string           `json:"status_text"`
}

// RequestLine renders "method url query postBody".
func (e Exchange) RequestLine() string {
	return strings.Join([]string{e.Method, e.URL, util.FormatQuery(e.Query), e.PostData}, " ")
}

// StatusLine renders "status statusText".
func (e Exchange) StatusLine() string {
	return strconv.FormatInt(e.Status, 10) + " " + e.StatusText
}

// String implements fmt.Stringer with both summary lines.
func (e Exchange) String() string {
	return fmt.Sprintf("%s\n%s", e.RequestLine(), e.StatusLine())
}

// Watcher follows Network events and emits an Exchange per finished XHR.
type Watcher struct {
	mu       sync.Mutex
	inFlight map[network.RequestID]*Exchange

	emit   func(Exchange)
	logger *zap.Logger
}

// NewWatcher creates a watcher that hands finished exchanges to emit.
func NewWatcher(emit func(Exchange), logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		inFlight: make(map[network.RequestID]*Exchange),
		emit:     emit,
		logger:   logger,
	}
}

// Handle consumes one protocol event. It has the signature expected by
// Tab.Listen.
func (w *Watcher) Handle(ev any) {
	switch e := ev.(type) {
	case *network.EventRequestWillBeSent:
		if e.Type == network.ResourceTypeXHR && e.Request != nil {
			w.onRequest(e)
		}
	case *network.EventResponseReceived:
		w.onResponse(e)
	case *network.EventLoadingFinished:
		w.onFinished(e.RequestID)
	case *network.EventLoadingFailed:
		w.forget(e.RequestID)
	}
}

// pending returns the number of XHRs still in flight.
func (w *Watcher) pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.inFlight)
}

func (w *Watcher) onRequest(e *network.EventRequestWillBeSent) {
	ex := &Exchange{
		RequestID: string(e.RequestID),
		Method:    e.Request.Method,
		URL:       e.Request.URL,
		Origin:    util.ExtractOrigin(e.Request.URL),
		Query:     util.QueryPairs(e.Request.URL),
	}
	if raw, ok := debugger.RequestPostData(e.Request); ok {
		body, err := types.ParseBody(raw)
		if err != nil {
			w.logger.Error("unhandled: XHR post data is not JSON",
				zap.String("url", e.Request.URL),
				zap.Error(err),
			)
			return
		}
		ex.PostData = string(body)
	}

	w.mu.Lock()
	w.inFlight[e.RequestID] = ex
	w.mu.Unlock()
}

func (w *Watcher) onResponse(e *network.EventResponseReceived) {
	if e.Response == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if ex, ok := w.inFlight[e.RequestID]; ok {
		ex.Status = e.Response.Status
		ex.StatusText = e.Response.StatusText
	}
}

func (w *Watcher) onFinished(id network.RequestID) {
	w.mu.Lock()
	ex, ok := w.inFlight[id]
	delete(w.inFlight, id)
	w.mu.Unlock()
	if !ok {
		return
	}
	w.logger.Debug("xhr finished",
		zap.String("request", ex.RequestLine()),
		zap.String("status", ex.StatusLine()),
	)
	w.emit(*ex)
}

func (w *Watcher) forget(id network.RequestID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.inFlight, id)
}
