// browser.go — Browser connection: remote (running Chrome) or launched.
package debugger

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/dev-console/netlog/internal/types"
)

// Browser is one browser process, reached either over a WebSocket connection
// this package owns (Connect) or through chromedp's exec allocator (Launch).
//
// Tabs of a connected browser share the one connection and are never closed
// by netlog: ending a session only detaches from the tab. Tabs of a launched
// browser go away with the browser.
type Browser struct {
	// remote
	conn       *chromedp.Browser
	connCancel context.CancelFunc

	// launched
	allocCtx    context.Context
	allocCancel context.CancelFunc

	logger *zap.Logger
}

// Connect resolves the browser WebSocket URL from remoteURL's /json/version
// and opens the protocol connection. No tab is attached yet.
func Connect(ctx context.Context, remoteURL string, logger *zap.Logger) (*Browser, error) {
	discovery := NewDiscovery(remoteURL)
	version, err := discovery.Version(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", remoteURL, err)
	}
	logger.Info("browser found",
		zap.String("browser", version.Browser),
		zap.String("protocol", version.ProtocolVersion),
	)

	// The connection outlives ctx; Close ends it.
	connCtx, connCancel := context.WithCancel(context.WithoutCancel(ctx))
	sugar := logger.Sugar()
	conn, err := chromedp.NewBrowser(connCtx, version.WebSocketDebuggerURL,
		chromedp.WithBrowserLogf(sugar.Debugf),
		chromedp.WithBrowserErrorf(sugar.Warnf),
	)
	if err != nil {
		connCancel()
		return nil, fmt.Errorf("connect to %s: %w", remoteURL, err)
	}
	return &Browser{
		conn:       conn,
		connCancel: connCancel,
		logger:     logger,
	}, nil
}

// Launch starts a local Chrome through chromedp's exec allocator. The process
// starts when the first tab attaches.
func Launch(ctx context.Context, headless bool, logger *zap.Logger) (*Browser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	return &Browser{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		logger:      logger,
	}, nil
}

// NewTab prepares a session on an existing tab of a connected browser.
// Register listeners on the returned Tab, then call Attach.
func (b *Browser) NewTab(t types.Target) (*Tab, error) {
	if b.conn == nil {
		return nil, fmt.Errorf("%w: tab %s: browser is not connected", ErrAttach, t.ID)
	}
	// A context without a chromedp parent counts as its browser's first
	// context, so cancelling it neither detaches nor closes the target.
	// Detaching is left to Tab.Close.
	tabCtx, cancel := chromedp.NewContext(context.Background(), chromedp.WithTargetID(target.ID(t.ID)))
	chromedp.FromContext(tabCtx).Browser = b.conn
	return newTab(tabCtx, cancel, t, b.conn, b.logger), nil
}

// OpenTab prepares a session on the first tab of a launched browser. Attach
// starts the browser process.
func (b *Browser) OpenTab() (*Tab, error) {
	if b.allocCtx == nil {
		return nil, fmt.Errorf("%w: only a launched browser can open a tab", ErrAttach)
	}
	sugar := b.logger.Sugar()
	tabCtx, cancel := chromedp.NewContext(b.allocCtx,
		chromedp.WithLogf(sugar.Debugf),
		chromedp.WithErrorf(sugar.Warnf),
	)
	return newTab(tabCtx, cancel, types.Target{Type: "page", URL: "about:blank"}, nil, b.logger), nil
}

// Close ends the connection or stops the launched browser. Close tabs first.
func (b *Browser) Close() {
	if b.connCancel != nil {
		b.connCancel()
	}
	if b.allocCancel != nil {
		b.allocCancel()
	}
}
