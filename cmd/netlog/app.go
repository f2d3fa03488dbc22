// app.go — Shared CLI state: resolved config, logger, output formatter.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dev-console/netlog/cmd/netlog/config"
	"github.com/dev-console/netlog/cmd/netlog/output"
	"github.com/dev-console/netlog/internal/debugger"
	"github.com/dev-console/netlog/internal/logging"
)

type app struct {
	flags flagValues

	cfg       config.Config
	logger    *zap.Logger
	formatter output.Formatter

	out    io.Writer
	errOut io.Writer
}

// flagValues are the persistent flags. Only flags the user set override
// lower configuration layers.
type flagValues struct {
	remoteURL string
	tab       string
	outputDir string
	format    string
	duration  time.Duration
	launch    bool
	headless  bool
	url       string
	logLevel  string
	logDev    bool
}

func (v *flagValues) register(cmd *cobra.Command) {
	d := config.Defaults()
	fs := cmd.PersistentFlags()
	fs.StringVar(&v.remoteURL, "remote-url", d.RemoteURL, "DevTools HTTP endpoint of a running Chrome")
	fs.StringVar(&v.tab, "tab", "", "Tab id or URL substring to attach to (default: most recent page)")
	fs.StringVarP(&v.outputDir, "output-dir", "o", "", "Directory for capture files (default: $XDG_DOWNLOAD_DIR or ~/Downloads)")
	fs.StringVar(&v.format, "format", d.Format, "Output format: human, json or csv")
	fs.DurationVar(&v.duration, "duration", 0, "Stop after this long (0 waits for the debugger to detach)")
	fs.BoolVar(&v.launch, "launch", false, "Launch a local Chrome instead of connecting to --remote-url")
	fs.BoolVar(&v.headless, "headless", d.Headless, "Run the launched Chrome headless")
	fs.StringVar(&v.url, "url", "", "URL to load once attached")
	fs.StringVar(&v.logLevel, "log-level", d.LogLevel, "Log level: debug, info, warn or error")
	fs.BoolVar(&v.logDev, "log-dev", false, "Human-readable log output")
}

// overrides returns the flags the user set explicitly.
func (v *flagValues) overrides(cmd *cobra.Command) *config.Overrides {
	o := &config.Overrides{}
	changed := cmd.Flags().Changed
	if changed("remote-url") {
		o.RemoteURL = &v.remoteURL
	}
	if changed("tab") {
		o.Tab = &v.tab
	}
	if changed("output-dir") {
		o.OutputDir = &v.outputDir
	}
	if changed("format") {
		o.Format = &v.format
	}
	if changed("duration") {
		o.Duration = &v.duration
	}
	if changed("launch") {
		o.Launch = &v.launch
	}
	if changed("headless") {
		o.Headless = &v.headless
	}
	if changed("url") {
		o.URL = &v.url
	}
	if changed("log-level") {
		o.LogLevel = &v.logLevel
	}
	if changed("log-dev") {
		o.LogDev = &v.logDev
	}
	return o
}

// setup resolves configuration and builds the logger before any command runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return runtimeError(fmt.Errorf("cannot determine working directory: %w", err))
	}

	cfg, err := config.Load(cwd, a.flags.overrides(cmd))
	if err != nil {
		return usageError(fmt.Errorf("configuration: %w", err))
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		return usageError(err)
	}
	a.logger = logger
	a.formatter = output.GetFormatter(cfg.Format)
	return nil
}

func (a *app) print(r *output.Result) error {
	return a.formatter.Format(a.out, r)
}

// openTab prepares a session on the configured tab: the first tab of a
// launched Chrome, or the active HTTP(S) page of a running one. The runner
// attaches it.
func (a *app) openTab(ctx context.Context, command string) (*debugger.Browser, *debugger.Tab, error) {
	if a.cfg.Launch {
		browser, err := debugger.Launch(ctx, a.cfg.Headless, a.logger)
		if err != nil {
			return nil, nil, runtimeError(err)
		}
		tab, err := browser.OpenTab()
		if err != nil {
			browser.Close()
			return nil, nil, a.attachFailed(command, err)
		}
		return browser, tab, nil
	}

	target, err := debugger.NewDiscovery(a.cfg.RemoteURL).ActiveTab(ctx, a.cfg.Tab)
	if errors.Is(err, debugger.ErrNotHTTP) {
		a.logger.Info("tab not instrumentable", zap.String("url", target.URL))
		fmt.Fprintln(a.errOut, debugger.NotHTTPMessage)
		return nil, nil, reportedError(err)
	}
	if err != nil {
		return nil, nil, a.attachFailed(command, err)
	}

	browser, err := debugger.Connect(ctx, a.cfg.RemoteURL, a.logger)
	if err != nil {
		return nil, nil, a.attachFailed(command, err)
	}
	tab, err := browser.NewTab(target)
	if err != nil {
		browser.Close()
		return nil, nil, a.attachFailed(command, err)
	}
	return browser, tab, nil
}

func (a *app) attachFailed(command string, err error) error {
	a.logger.Error("cannot attach", zap.Error(err))
	if perr := a.print(output.ErrorResult(command, "attach", err)); perr != nil {
		return runtimeError(perr)
	}
	return reportedError(err)
}
