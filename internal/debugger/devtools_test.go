// devtools_test.go — A scripted DevTools endpoint for Tab lifecycle tests.
package debugger

import (
	"encoding/json"
	"maps"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

const (
	fakeTargetID  = "USERTAB"
	fakeSessionID = "SESSION1"
)

type cdpMessage struct {
	ID        int64           `json:"id,omitempty"`
	SessionID string          `json:"sessionId,omitempty"`
	Method    string          `json:"method,omitempty"`
	Params    json.RawMessage `json:"params,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     *cdpError       `json:"error,omitempty"`
}

type cdpError struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
}

// defaultResults answer the commands chromedp sends while attaching.
// Anything not listed gets an empty result.
var defaultResults = map[string]string{
	"Target.attachToTarget": `{"sessionId":"` + fakeSessionID + `"}`,
	"Target.closeTarget":    `{"success":true}`,
	"Runtime.evaluate":      `{"result":{"type":"object","className":"Window"}}`,
	"Page.getFrameTree": `{"frameTree":{"frame":{"id":"FRAME1","loaderId":"LOADER1",` +
		`"url":"https://example.com/","securityOrigin":"https://example.com","mimeType":"text/html"}}}`,
	"DOM.getDocument": `{"root":{"nodeId":1,"backendNodeId":1,"nodeType":9,` +
		`"nodeName":"#document","localName":"","nodeValue":""}}`,
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// fakeDevTools serves /json/version and one browser WebSocket. It records
// every command, answers from results, fails the methods in failures and
// never answers the methods in stalled.
type fakeDevTools struct {
	srv *httptest.Server

	mu       sync.Mutex
	conn     *websocket.Conn
	requests []cdpMessage
	results  map[string]string
	failures map[string]string
	stalled  map[string]bool
	// after maps a method to an event sent right after its reply.
	after map[string]cdpMessage

	writeMu sync.Mutex
	closed  chan struct{}
}

func newFakeDevTools(t *testing.T) *fakeDevTools {
	t.Helper()
	f := &fakeDevTools{
		results:  maps.Clone(defaultResults),
		failures: make(map[string]string),
		stalled:  make(map[string]bool),
		after:    make(map[string]cdpMessage),
		closed:   make(chan struct{}),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/json/version", f.version)
	mux.HandleFunc("/devtools/browser/fake", f.serve)
	f.srv = httptest.NewServer(mux)
	t.Cleanup(func() {
		f.drop()
		f.srv.Close()
	})
	return f
}

func (f *fakeDevTools) URL() string {
	return f.srv.URL
}

func (f *fakeDevTools) version(w http.ResponseWriter, _ *http.Request) {
	ws := "ws" + strings.TrimPrefix(f.srv.URL, "http") + "/devtools/browser/fake"
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"Browser":              "HeadlessChrome/130.0.6723.58",
		"Protocol-Version":     "1.3",
		"webSocketDebuggerUrl": ws,
	})
}

func (f *fakeDevTools) serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	f.mu.Lock()
	f.conn = conn
	f.mu.Unlock()
	defer close(f.closed)
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var req cdpMessage
		if err := json.Unmarshal(data, &req); err != nil {
			return
		}
		f.handle(req)
	}
}

func (f *fakeDevTools) handle(req cdpMessage) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	failure, failed := f.failures[req.Method]
	result, ok := f.results[req.Method]
	stalled := f.stalled[req.Method]
	event, hasEvent := f.after[req.Method]
	f.mu.Unlock()

	if stalled {
		return
	}
	resp := cdpMessage{ID: req.ID, SessionID: req.SessionID}
	switch {
	case failed:
		resp.Error = &cdpError{Code: -32000, Message: failure}
	case ok:
		resp.Result = json.RawMessage(result)
	default:
		resp.Result = json.RawMessage(`{}`)
	}
	f.send(resp)

	if req.Method == "Target.detachFromTarget" && !failed {
		f.emit("", "Target.detachedFromTarget", `{"sessionId":"`+fakeSessionID+`"}`)
	}
	if hasEvent {
		f.send(event)
	}
}

func (f *fakeDevTools) send(msg cdpMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	f.mu.Lock()
	conn := f.conn
	f.mu.Unlock()
	if conn == nil {
		return
	}
	f.writeMu.Lock()
	defer f.writeMu.Unlock()
	_ = conn.WriteMessage(websocket.TextMessage, data)
}

// emit sends an event, on the tab session when sessionID is set or on the
// browser connection otherwise.
func (f *fakeDevTools) emit(sessionID, method, params string) {
	f.send(cdpMessage{SessionID: sessionID, Method: method, Params: json.RawMessage(params)})
}

func (f *fakeDevTools) emitAfter(method string, sessionID, event, params string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.after[method] = cdpMessage{SessionID: sessionID, Method: event, Params: json.RawMessage(params)}
}

func (f *fakeDevTools) fail(method, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method] = message
}

func (f *fakeDevTools) result(method, result string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[method] = result
}

func (f *fakeDevTools) stall(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stalled[method] = true
}

// drop closes the WebSocket without a close handshake, like a browser exit.
func (f *fakeDevTools) drop() {
	f.mu.Lock()
	conn := f.conn
	f.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
}

func (f *fakeDevTools) methods() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.requests))
	for _, r := range f.requests {
		out = append(out, r.Method)
	}
	return out
}

// last returns the most recent request for method.
func (f *fakeDevTools) last(method string) (cdpMessage, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.requests) - 1; i >= 0; i-- {
		if f.requests[i].Method == method {
			return f.requests[i], true
		}
	}
	return cdpMessage{}, false
}

// waitClosed waits for the client to hang up.
func (f *fakeDevTools) waitClosed(t *testing.T) {
	t.Helper()
	select {
	case <-f.closed:
	case <-time.After(5 * time.Second):
		t.Fatal("browser connection was not closed")
	}
}
