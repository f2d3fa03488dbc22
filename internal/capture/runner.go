// runner.go — Attach-to-flush lifecycle for one tab.
package capture

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dev-console/netlog/internal/debugger"
	"github.com/dev-console/netlog/internal/export"
)

// End-of-session reasons set by the runner itself.
const (
	ReasonInterrupted     = "interrupted"
	ReasonDurationElapsed = "duration_elapsed"
	ReasonAttachFailed    = "attach_failed"
)

// ErrNoDownloader is returned by Run when the runner has nowhere to save.
var ErrNoDownloader = errors.New("capture: no downloader configured")

// Runner drives a capture session on an attached tab.
type Runner struct {
	Downloader export.Downloader
	Logger     *zap.Logger

	// Duration ends the session after the given time. Zero waits for detach.
	Duration time.Duration
	// StartURL is loaded once domains are enabled, if the tab can navigate.
	StartURL string
	// Now stamps the capture filename. Defaults to time.Now.
	Now func() time.Time

	// OnSession, if set, is called with the session right after it starts.
	OnSession func(*Session)
}

// Run attaches to tab and captures until it detaches, ctx is cancelled or
// Duration elapses, then writes the entries through the downloader.
// An interrupted capture is still flushed. A failed attach returns the
// tab's error, which wraps debugger.ErrAttach, and writes nothing.
func (r *Runner) Run(ctx context.Context, tab Tab) (export.Result, error) {
	logger := r.logger()
	if r.Downloader == nil {
		return export.Result{}, ErrNoDownloader
	}

	sess := NewSession(ctx, tab.ID(), tab, logger)
	if r.OnSession != nil {
		r.OnSession(sess)
	}
	// The attach itself enables Network, Log and Runtime.
	tab.Listen(sess.Handle)
	if err := tab.Attach(ctx); err != nil {
		sess.Detach(ReasonAttachFailed)
		if cerr := tab.Close(); cerr != nil {
			logger.Debug("tab close", zap.Error(cerr))
		}
		return export.Result{}, err
	}
	tab.Enable(ctx, debugger.DomainNetwork, debugger.DomainLog, debugger.DomainRuntime)
	logger.Info("capture started", zap.String("session_id", sess.ID), zap.String("tab_id", tab.ID()))

	if r.StartURL != "" {
		if nav, ok := tab.(Navigator); ok {
			if err := nav.Navigate(ctx, r.StartURL); err != nil {
				logger.Warn("navigate failed", zap.String("url", r.StartURL), zap.Error(err))
			}
		}
	}

	var timeout <-chan time.Time
	if r.Duration > 0 {
		timer := time.NewTimer(r.Duration)
		defer timer.Stop()
		timeout = timer.C
	}

	var reason string
	select {
	case <-tab.Done():
		reason = tab.Reason()
	case <-ctx.Done():
		reason = ReasonInterrupted
	case <-timeout:
		reason = ReasonDurationElapsed
	}
	// An interrupt also cancels a launched browser's tab, so both cases
	// can be ready at once.
	if ctx.Err() != nil {
		reason = ReasonInterrupted
	}

	entries := sess.Detach(reason)
	if err := tab.Close(); err != nil {
		logger.Debug("tab close", zap.Error(err))
	}

	res, err := export.Flush(context.WithoutCancel(ctx), entries, r.now(), r.Downloader)
	if err != nil {
		return export.Result{}, fmt.Errorf("flush capture: %w", err)
	}
	logger.Info("capture saved",
		zap.String("saved_to", res.SavedTo),
		zap.Int("entries", res.EntriesCount),
		zap.Int64("bytes", res.FileSizeBytes),
	)
	return res, nil
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

func (r *Runner) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}
