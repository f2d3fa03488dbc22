// runner.go — One panel session: tally once, then optionally watch XHRs.
package panel

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dev-console/netlog/internal/debugger"
	"github.com/dev-console/netlog/internal/types"
)

// Source is the inspected page. *debugger.Tab implements it.
type Source interface {
	Attach(ctx context.Context) error
	Navigate(ctx context.Context, url string) error
	Resources(ctx context.Context) ([]types.Resource, error)
	Enable(ctx context.Context, domains ...debugger.Domain)
	Listen(fn func(ev any))
	Done() <-chan struct{}
	Reason() string
	Close() error
}

var _ Source = (*debugger.Tab)(nil)

// Runner prints the resource tally and, when Watch is set, follows XHRs
// until the tab detaches, ctx ends or Duration elapses.
type Runner struct {
	Logger   *zap.Logger
	Watch    bool
	Duration time.Duration
	// StartURL is loaded after attaching, before the tally is taken.
	StartURL string

	OnTally    func(*types.ResourceTally) error
	OnExchange func(Exchange) error
}

// Run attaches to src, executes the panel and closes it when done. A failed
// attach returns src's error, which wraps debugger.ErrAttach.
func (r *Runner) Run(ctx context.Context, src Source) error {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	defer func() {
		if err := src.Close(); err != nil {
			logger.Debug("tab close", zap.Error(err))
		}
	}()

	if r.Watch {
		w := NewWatcher(func(ex Exchange) {
			if r.OnExchange == nil {
				return
			}
			if err := r.OnExchange(ex); err != nil {
				logger.Warn("print exchange", zap.Error(err))
			}
		}, logger)
		src.Listen(w.Handle)
	}
	if err := src.Attach(ctx); err != nil {
		return err
	}

	src.Enable(ctx, debugger.DomainPage)
	if r.StartURL != "" {
		if err := src.Navigate(ctx, r.StartURL); err != nil {
			logger.Warn("navigate failed", zap.String("url", r.StartURL), zap.Error(err))
		}
	}
	resources, err := src.Resources(ctx)
	if err != nil {
		return fmt.Errorf("get resources: %w", err)
	}
	tally := Tally(resources)
	logger.Debug("getResources", zap.Int("count", len(resources)), zap.Int("types", tally.Len()))

	if r.OnTally != nil {
		if err := r.OnTally(tally); err != nil {
			return err
		}
	}
	if !r.Watch {
		return nil
	}
	src.Enable(ctx, debugger.DomainNetwork)

	var timeout <-chan time.Time
	if r.Duration > 0 {
		timer := time.NewTimer(r.Duration)
		defer timer.Stop()
		timeout = timer.C
	}
	select {
	case <-src.Done():
		logger.Info("panel detached", zap.String("reason", src.Reason()))
	case <-ctx.Done():
	case <-timeout:
	}
	return nil
}
