// interfaces.go — What capture needs from the debugger bridge.
package capture

import (
	"context"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/runtime"

	"github.com/dev-console/netlog/internal/debugger"
)

// Commander runs the follow-up protocol commands the dispatcher issues.
type Commander interface {
	GetResponseBody(ctx context.Context, requestID network.RequestID) ([]byte, error)
	GetProperties(ctx context.Context, objectID runtime.RemoteObjectID) ([]*runtime.PropertyDescriptor, error)
}

// Tab is a debugging session on one tab. *debugger.Tab implements it.
type Tab interface {
	Commander
	ID() string
	Attach(ctx context.Context) error
	Enable(ctx context.Context, domains ...debugger.Domain)
	Listen(fn func(ev any))
	Done() <-chan struct{}
	Reason() string
	Close() error
}

// Navigator is implemented by tabs that can load a URL after domains are enabled.
type Navigator interface {
	Navigate(ctx context.Context, url string) error
}

var _ Tab = (*debugger.Tab)(nil)
var _ Navigator = (*debugger.Tab)(nil)
