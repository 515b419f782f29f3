// Package flintcheck is the CLI entry point: it wires the factory, the
// root command, and signal handling, and maps errors to exit codes.
package flintcheck

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jorgito1167/flintcheck/internal/cmd/root"
	"github.com/jorgito1167/flintcheck/internal/cmdutil"
	"github.com/jorgito1167/flintcheck/internal/logger"
	"github.com/jorgito1167/flintcheck/internal/signals"
)

// Build-time variables injected via ldflags
var (
	Version = "dev"
	Commit  = "none"
)

// Main is the entry point for the flintcheck CLI.
// It initializes the Factory, creates the root command, and executes it.
// The return value is the process exit code: 0 when the suite passed,
// 1 for a failed negative assertion or a driver error, otherwise the
// exit code of the first unexpectedly-failing step.
func Main() int {
	// Ensure logs are flushed on exit
	defer logger.CloseFileWriter()

	f := cmdutil.New(Version, Commit)

	rootCmd, err := root.NewCmdRoot(f, Version, Commit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Ctrl-C cancels the run context; in-flight CLI processes are killed.
	ctx, stop := signals.SetupSignalContext(context.Background())
	defer stop()

	cmd, err := rootCmd.ExecuteContextC(ctx)
	if err == nil {
		return 0
	}

	// A step failure already reported itself; carry its code through.
	var exitErr *cmdutil.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	if errors.Is(err, cmdutil.SilentError) {
		return 1
	}

	var flagErr *cmdutil.FlagError
	if errors.As(err, &flagErr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", flagErr)
		if cmd != nil {
			fmt.Fprintf(os.Stderr, "\nUsage:  %s\n", cmd.UseLine())
		}
		return 1
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}
