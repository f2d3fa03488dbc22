// tab.go — One debugging session on a tab: attach, events, commands, detach.
package debugger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/inspector"
	cdplog "github.com/chromedp/cdproto/log"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/dev-console/netlog/internal/types"
)

// ErrAttach wraps every failure to start a debugging session.
var ErrAttach = errors.New("cannot attach")

// Detach reasons reported by Tab.Reason besides the protocol's own
// Inspector.detached reasons.
const (
	ReasonTargetClosed   = "target_closed"
	ReasonTargetCrashed  = "target_crashed"
	ReasonSessionEnded   = "session_ended"
	ReasonConnectionLost = "connection_lost"
	ReasonCanceled       = "canceled"
)

const detachTimeout = time.Second

// Domain is a protocol domain that can be enabled on a tab.
type Domain string

const (
	DomainNetwork Domain = "Network"
	DomainLog     Domain = "Log"
	DomainRuntime Domain = "Runtime"
	DomainPage    Domain = "Page"
)

// Tab is a debugging session on one browser target.
type Tab struct {
	ctx    context.Context
	cancel func()
	target types.Target
	logger *zap.Logger

	// conn is the shared connection of a connected browser; nil for a
	// launched one.
	conn *chromedp.Browser

	once      sync.Once
	closeOnce sync.Once
	done      chan struct{}
	mu        sync.Mutex
	reason    string
}

func newTab(ctx context.Context, cancel context.CancelFunc, t types.Target, conn *chromedp.Browser, logger *zap.Logger) *Tab {
	return &Tab{
		ctx: ctx,
		// chromedp's cancel blocks forever when called twice on a context
		// that never allocated a browser.
		cancel: sync.OnceFunc(cancel),
		target: t,
		conn:   conn,
		logger: logger.With(zap.String("tab_id", t.ID)),
		done:   make(chan struct{}),
	}
}

// ID returns the target id of the tab. For a tab opened on a launched
// browser it is known only after Attach.
func (t *Tab) ID() string {
	return t.target.ID
}

// Attach opens the protocol session. Listeners registered with Listen before
// Attach see every event of the session, including those sent while chromedp
// enables its default domains. Cancelling ctx aborts a pending attach.
func (t *Tab) Attach(ctx context.Context) error {
	stop := context.AfterFunc(ctx, t.cancel)
	defer stop()

	if err := chromedp.Run(t.ctx); err != nil {
		t.cancel()
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return fmt.Errorf("%w to tab %s: %w", ErrAttach, t.target.ID, err)
	}
	if c := chromedp.FromContext(t.ctx); t.target.ID == "" && c != nil && c.Target != nil {
		t.target.ID = string(c.Target.TargetID)
		t.logger = t.logger.With(zap.String("tab_id", t.target.ID))
	}
	t.watch()
	t.logger.Info("debugger attached", zap.String("url", t.target.URL))
	return nil
}

// Enable turns on event reporting for the given domains, one command each.
// Failures are logged and do not stop the remaining domains.
func (t *Tab) Enable(ctx context.Context, domains ...Domain) {
	for _, d := range domains {
		if ctx.Err() != nil {
			return
		}
		action := enableAction(d)
		if action == nil {
			t.logger.Warn("unknown domain", zap.String("domain", string(d)))
			continue
		}
		if err := action.Do(t.executor(ctx)); err != nil {
			t.logger.Warn("domain enable failed", zap.String("domain", string(d)), zap.Error(err))
			continue
		}
		t.logger.Info(string(d) + " enabled")
	}
}

func enableAction(d Domain) chromedp.Action {
	switch d {
	case DomainNetwork:
		return network.Enable()
	case DomainLog:
		return cdplog.Enable()
	case DomainRuntime:
		return runtime.Enable()
	case DomainPage:
		return page.Enable()
	default:
		return nil
	}
}

// Listen registers fn for every protocol event on this tab.
// fn runs on chromedp's event goroutine and must not block.
func (t *Tab) Listen(fn func(ev any)) {
	chromedp.ListenTarget(t.ctx, func(ev interface{}) { fn(ev) })
}

// Navigate loads url in the tab.
func (t *Tab) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return chromedp.Run(t.ctx, chromedp.Navigate(url))
}

// GetResponseBody runs Network.getResponseBody. Cancelling ctx abandons the call.
func (t *Tab) GetResponseBody(ctx context.Context, requestID network.RequestID) ([]byte, error) {
	return network.GetResponseBody(requestID).Do(t.executor(ctx))
}

// GetProperties runs Runtime.getProperties with previews generated.
func (t *Tab) GetProperties(ctx context.Context, objectID runtime.RemoteObjectID) ([]*runtime.PropertyDescriptor, error) {
	result, _, _, exception, err := runtime.GetProperties(objectID).
		WithOwnProperties(true).
		WithGeneratePreview(true).
		Do(t.executor(ctx))
	if err != nil {
		return nil, err
	}
	if exception != nil {
		return nil, exception
	}
	return result, nil
}

// Resources returns every resource of the page's frame tree: one "document"
// per frame plus its sub-resources. Types are lower-cased ("script", "image").
func (t *Tab) Resources(ctx context.Context) ([]types.Resource, error) {
	tree, err := page.GetResourceTree().Do(t.executor(ctx))
	if err != nil {
		return nil, err
	}
	var out []types.Resource
	flattenFrameTree(tree, &out)
	return out, nil
}

func flattenFrameTree(tree *page.FrameResourceTree, out *[]types.Resource) {
	if tree == nil {
		return
	}
	if tree.Frame != nil {
		*out = append(*out, types.Resource{URL: tree.Frame.URL, Type: "document"})
	}
	for _, r := range tree.Resources {
		*out = append(*out, types.Resource{URL: r.URL, Type: strings.ToLower(string(r.Type))})
	}
	for _, child := range tree.ChildFrames {
		flattenFrameTree(child, out)
	}
}

// Done is closed when the debugging session ends.
func (t *Tab) Done() <-chan struct{} {
	return t.done
}

// Reason returns why the session ended; empty while attached.
func (t *Tab) Reason() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reason
}

// Close ends the session. On a connected browser it detaches from the tab
// and leaves the tab open; a launched browser's tab goes away with the
// browser. A session the browser already ended is not detached again.
func (t *Tab) Close() error {
	var err error
	t.closeOnce.Do(func() {
		select {
		case <-t.done:
		default:
			t.detach(ReasonCanceled)
			err = t.endSession()
		}
		t.cancel()
	})
	return err
}

// endSession sends Target.detachFromTarget over the browser connection.
func (t *Tab) endSession() error {
	if t.conn == nil {
		return nil
	}
	c := chromedp.FromContext(t.ctx)
	if c == nil || c.Target == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), detachTimeout)
	defer cancel()
	if err := target.DetachFromTarget().WithSessionID(c.Target.SessionID).Do(cdp.WithExecutor(ctx, t.conn)); err != nil {
		return fmt.Errorf("detach from tab %s: %w", t.target.ID, err)
	}
	return nil
}

// executor binds a command context to this tab's protocol session.
func (t *Tab) executor(ctx context.Context) context.Context {
	c := chromedp.FromContext(t.ctx)
	if c == nil || c.Target == nil {
		return ctx
	}
	return cdp.WithExecutor(ctx, c.Target)
}

// watch turns the protocol's end-of-session signals into one Done close.
// Target events arrive on the tab session or on the browser connection
// depending on who enabled discovery, so both are watched.
func (t *Tab) watch() {
	var sessionID target.SessionID
	var lost <-chan struct{}
	if c := chromedp.FromContext(t.ctx); c != nil {
		if c.Target != nil {
			sessionID = c.Target.SessionID
		}
		if c.Browser != nil {
			lost = c.Browser.LostConnection
		}
	}

	handle := func(ev interface{}) {
		switch e := ev.(type) {
		case *inspector.EventDetached:
			t.detach(e.Reason.String())
		case *inspector.EventTargetCrashed:
			t.detach(ReasonTargetCrashed)
		case *target.EventTargetDestroyed:
			if string(e.TargetID) == t.target.ID {
				t.detach(ReasonTargetClosed)
			}
		case *target.EventDetachedFromTarget:
			if sessionID != "" && e.SessionID == sessionID {
				t.detach(ReasonSessionEnded)
			}
		}
	}
	chromedp.ListenTarget(t.ctx, handle)
	chromedp.ListenBrowser(t.ctx, handle)

	go func() {
		select {
		case <-lost:
			t.detach(ReasonConnectionLost)
		case <-t.ctx.Done():
			t.detach(ReasonCanceled)
		}
	}()
}

func (t *Tab) detach(reason string) {
	t.once.Do(func() {
		t.mu.Lock()
		t.reason = reason
		t.mu.Unlock()
		t.logger.Info("debugger detached", zap.String("reason", reason))
		close(t.done)
	})
}
