package panel

import (
	"encoding/base64"
	"testing"

	"github.com/chromedp/cdproto/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dev-console/netlog/internal/util"
)

func sent(id, method, url, post string, typ network.ResourceType) *network.EventRequestWillBeSent {
	req := &network.Request{Method: method, URL: url}
	if post != "" {
		req.HasPostData = true
		req.PostDataEntries = []*network.PostDataEntry{{Bytes: base64.StdEncoding.EncodeToString([]byte(post))}}
	}
	return &network.EventRequestWillBeSent{RequestID: network.RequestID(id), Request: req, Type: typ}
}

func received(id string, status int64, text string) *network.EventResponseReceived {
	return &network.EventResponseReceived{
		RequestID: network.RequestID(id),
		Type:      network.ResourceTypeXHR,
		Response:  &network.Response{Status: status, StatusText: text},
	}
}

func finished(id string) *network.EventLoadingFinished {
	return &network.EventLoadingFinished{RequestID: network.RequestID(id)}
}

func TestWatcherEmitsFinishedXHR(t *testing.T) {
	t.Parallel()

	var got []Exchange
	w := NewWatcher(func(ex Exchange) { got = append(got, ex) }, nil)

	w.Handle(sent("1", "POST", "https://api.test/items?page=2&q=a%20b", `{ "a": 1 }`, network.ResourceTypeXHR))
	w.Handle(received("1", 201, "Created"))
	assert.Empty(t, got, "nothing is emitted before loadingFinished")
	w.Handle(finished("1"))

	require.Len(t, got, 1)
	ex := got[0]
	assert.Equal(t, "POST", ex.Method)
	assert.Equal(t, "https://api.test", ex.Origin)
	assert.Equal(t, []util.NameValue{{Name: "page", Value: "2"}, {Name: "q", Value: "a b"}}, ex.Query)
	assert.Equal(t, `{"a":1}`, ex.PostData)
	assert.Equal(t, `POST https://api.test/items?page=2&q=a%20b page=2&q=a b {"a":1}`, ex.RequestLine())
	assert.Equal(t, "201 Created", ex.StatusLine())
	assert.Zero(t, w.pending())
}

func TestWatcherIgnoresNonXHR(t *testing.T) {
	t.Parallel()

	var got []Exchange
	w := NewWatcher(func(ex Exchange) { got = append(got, ex) }, nil)

	w.Handle(sent("1", "GET", "https://app.test/app.js", "", network.ResourceTypeScript))
	w.Handle(finished("1"))
	w.Handle(finished("unknown"))

	assert.Empty(t, got)
}

func TestWatcherDropsFailedLoads(t *testing.T) {
	t.Parallel()

	var got []Exchange
	w := NewWatcher(func(ex Exchange) { got = append(got, ex) }, nil)

	w.Handle(sent("1", "GET", "https://api.test/down", "", network.ResourceTypeXHR))
	require.Equal(t, 1, w.pending())
	w.Handle(&network.EventLoadingFailed{RequestID: "1", ErrorText: "net::ERR_CONNECTION_REFUSED"})
	w.Handle(finished("1"))

	assert.Empty(t, got)
	assert.Zero(t, w.pending())
}

func TestWatcherMalformedPostData(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	var got []Exchange
	w := NewWatcher(func(ex Exchange) { got = append(got, ex) }, zap.New(core))

	w.Handle(sent("1", "POST", "https://api.test/form", "a=1", network.ResourceTypeXHR))
	w.Handle(finished("1"))

	assert.Empty(t, got)
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestExchangeString(t *testing.T) {
	t.Parallel()

	ex := Exchange{Method: "GET", URL: "https://api.test/x", Status: 200, StatusText: "OK"}
	assert.Equal(t, "GET https://api.test/x  \n200 OK", ex.String())
}
