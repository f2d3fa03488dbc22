// commands.go — capture and panel subcommands.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dev-console/netlog/cmd/netlog/output"
	"github.com/dev-console/netlog/internal/capture"
	"github.com/dev-console/netlog/internal/debugger"
	"github.com/dev-console/netlog/internal/export"
	"github.com/dev-console/netlog/internal/panel"
	"github.com/dev-console/netlog/internal/types"
)

func newCaptureCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "capture",
		Short: "Record XHR traffic and console output until the debugger detaches",
		Long: `capture attaches to the active HTTP(S) tab, enables the Network, Log and
Runtime domains and records every XHR request, XHR response body, console
string or object and browser log entry. Closing the tab, detaching DevTools,
Ctrl-C or --duration ends the session and writes the capture file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.runCapture(ctx)
		},
	}
}

func (a *app) runCapture(ctx context.Context) error {
	browser, tab, err := a.openTab(ctx, "capture")
	if err != nil {
		return err
	}
	defer browser.Close()

	runner := &capture.Runner{
		Downloader: export.DirDownloader{Dir: a.cfg.OutputDir},
		Logger:     a.logger,
		Duration:   a.cfg.Duration,
		StartURL:   a.cfg.URL,
	}
	res, err := runner.Run(ctx, tab)
	if errors.Is(err, debugger.ErrAttach) {
		return a.attachFailed("capture", err)
	}
	if err != nil {
		a.logger.Error("capture failed", zap.Error(err))
		_ = a.print(output.ErrorResult("capture", "save", err))
		return reportedError(err)
	}
	if err := a.print(output.CaptureResult(res)); err != nil {
		return runtimeError(err)
	}
	return nil
}

func newPanelCmd(a *app) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "panel",
		Short: "Print the page's resource-type tally and, with --watch, finished XHRs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.runPanel(ctx, watch)
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep printing finished XHR requests until detach")
	return cmd
}

func (a *app) runPanel(ctx context.Context, watch bool) error {
	browser, tab, err := a.openTab(ctx, "panel")
	if err != nil {
		return err
	}
	defer browser.Close()

	runner := &panel.Runner{
		Logger:   a.logger,
		Watch:    watch,
		Duration: a.cfg.Duration,
		StartURL: a.cfg.URL,
		OnTally: func(t *types.ResourceTally) error {
			return a.print(output.TallyResult(t))
		},
		OnExchange: func(ex panel.Exchange) error {
			return a.print(output.ExchangeResult(ex))
		},
	}
	err = runner.Run(ctx, tab)
	if errors.Is(err, debugger.ErrAttach) {
		return a.attachFailed("panel", err)
	}
	if err != nil {
		return runtimeError(err)
	}
	return nil
}
