// main.go — Entry point for the netlog CLI binary.
// Attaches to a Chrome tab over the DevTools protocol, captures XHR traffic,
// console output and log entries, and saves them as JSON on detach.
//
// Usage: netlog <command> [--flags]
//
// Commands: capture, panel, version
// Formats: --format human (default), --format json, --format csv
//
// Exit codes:
//   0 = success
//   1 = error (attach failed, flush failed)
//   2 = usage error (unknown command, invalid flags or config)
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the main entry point, separated for testability.
// Returns the exit code.
func run(args []string) int {
	return runWith(args, os.Stdout, os.Stderr)
}

func runWith(args []string, stdout, stderr io.Writer) int {
	a := &app{out: stdout, errOut: stderr}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if err == nil {
		return 0
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil && !ee.reported {
			fmt.Fprintf(stderr, "Error: %v\n", ee.err)
		}
		return ee.code
	}
	// cobra's own errors: unknown command, bad flag syntax
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 2
}

// exitError carries the process exit code for a failed command.
type exitError struct {
	code     int
	err      error
	reported bool
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func usageError(err error) error   { return &exitError{code: 2, err: err} }
func runtimeError(err error) error { return &exitError{code: 1, err: err} }

// reportedError exits 1 without printing again.
func reportedError(err error) error { return &exitError{code: 1, err: err, reported: true} }

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "netlog",
		Short: "netlog records a tab's XHR traffic and console output to a JSON file",
		Long: `netlog attaches to a Chrome tab through the DevTools protocol, records XHR
requests and responses, console output and browser log entries, and when the
debugger detaches writes them to network_log_<date>_<time>_<ms>.json.

Configuration can be provided via flags, NETLOG_* environment variables,
.netlog.yaml in the working directory, or config.yaml in the state directory.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetVersionTemplate("netlog {{.Version}}\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	a.flags.register(root)
	root.AddCommand(
		newCaptureCmd(a),
		newPanelCmd(a),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the netlog version",
		Args:  cobra.NoArgs,
		// version needs no config or logger
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "netlog %s\n", version)
		},
	}
}
