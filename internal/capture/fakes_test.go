// fakes_test.go — In-memory stand-ins for an attached tab.
package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/runtime"

	"github.com/dev-console/netlog/internal/debugger"
)

var errNoResource = errors.New("No resource with given identifier found")

// fakeCommander answers follow-ups from fixed maps. A non-nil gate makes
// every command wait until the gate closes or ctx ends.
type fakeCommander struct {
	mu         sync.Mutex
	bodies     map[network.RequestID]string
	properties map[runtime.RemoteObjectID][]*runtime.PropertyDescriptor
	gate       chan struct{}
	calls      int
}

func newFakeCommander() *fakeCommander {
	return &fakeCommander{
		bodies:     make(map[network.RequestID]string),
		properties: make(map[runtime.RemoteObjectID][]*runtime.PropertyDescriptor),
	}
}

func (c *fakeCommander) wait(ctx context.Context) error {
	c.mu.Lock()
	c.calls++
	gate := c.gate
	c.mu.Unlock()
	if gate == nil {
		return ctx.Err()
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *fakeCommander) GetResponseBody(ctx context.Context, id network.RequestID) ([]byte, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	body, ok := c.bodies[id]
	if !ok {
		return nil, errNoResource
	}
	return []byte(body), nil
}

func (c *fakeCommander) GetProperties(ctx context.Context, id runtime.RemoteObjectID) ([]*runtime.PropertyDescriptor, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	props, ok := c.properties[id]
	if !ok {
		return nil, errNoResource
	}
	return props, nil
}

func (c *fakeCommander) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// fakeTab delivers events synchronously to its listeners, like chromedp's
// single event goroutine.
type fakeTab struct {
	*fakeCommander

	id string

	// attachEvents are delivered while Attach runs, as chromedp does for
	// the domains it enables during attach.
	attachEvents []any
	attachErr    error
	onEnable     func()

	mu        sync.Mutex
	attached  bool
	listeners []func(ev any)
	enabled   []debugger.Domain
	navigated []string
	closed    bool
	reason    string
	done      chan struct{}
	once      sync.Once
	ready     chan struct{}
}

func newFakeTab(id string) *fakeTab {
	return &fakeTab{
		fakeCommander: newFakeCommander(),
		id:            id,
		done:          make(chan struct{}),
		ready:         make(chan struct{}),
	}
}

func (t *fakeTab) ID() string { return t.id }

func (t *fakeTab) Attach(_ context.Context) error {
	if t.attachErr != nil {
		return fmt.Errorf("%w to tab %s: %w", debugger.ErrAttach, t.id, t.attachErr)
	}
	t.mu.Lock()
	t.attached = true
	t.mu.Unlock()
	t.emit(t.attachEvents...)
	return nil
}

func (t *fakeTab) Enable(_ context.Context, domains ...debugger.Domain) {
	t.mu.Lock()
	t.enabled = append(t.enabled, domains...)
	t.mu.Unlock()
	if t.onEnable != nil {
		t.onEnable()
	}
	close(t.ready)
}

func (t *fakeTab) Listen(fn func(ev any)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, fn)
}

func (t *fakeTab) Navigate(_ context.Context, url string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.navigated = append(t.navigated, url)
	return nil
}

func (t *fakeTab) Done() <-chan struct{} { return t.done }

func (t *fakeTab) Reason() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reason
}

func (t *fakeTab) Close() error {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	t.detach(debugger.ReasonCanceled)
	return nil
}

func (t *fakeTab) emit(events ...any) {
	t.mu.Lock()
	listeners := append([]func(ev any){}, t.listeners...)
	t.mu.Unlock()
	for _, ev := range events {
		for _, fn := range listeners {
			fn(ev)
		}
	}
}

func (t *fakeTab) detach(reason string) {
	t.once.Do(func() {
		t.mu.Lock()
		t.reason = reason
		t.mu.Unlock()
		close(t.done)
	})
}

func (t *fakeTab) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// memDownloader keeps downloads in memory.
type memDownloader struct {
	mu    sync.Mutex
	files map[string]string
}

func (d *memDownloader) Download(_ context.Context, url, filename string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.files == nil {
		d.files = make(map[string]string)
	}
	d.files[filename] = url
	return "mem://" + filename, nil
}
