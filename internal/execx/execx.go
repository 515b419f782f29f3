// Package execx runs external commands and captures their outcome as a
// structured result instead of propagating nonzero exits as errors.
//
// The distinction matters for the lifecycle suite: a nonzero exit code is
// sometimes the correct, asserted outcome (duplicate-name rejection), so
// callers must be able to inspect it rather than abort on it. Errors are
// reserved for invocations that never produced an exit code at all: a
// missing binary, a denied exec, or a context cancellation/timeout.
package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// Result holds the outcome of a single completed command invocation.
type Result struct {
	// Cmd is the rendered command line, for logs and reports.
	Cmd string
	// ExitCode is the process exit status. Zero means success by the
	// convention of every CLI call the suite makes.
	ExitCode int
	// Stdout and Stderr hold the captured output. When the command ran
	// on a pseudo-terminal the streams are merged into Stdout.
	Stdout string
	Stderr string
	// Duration is the wall-clock time of the invocation.
	Duration time.Duration
}

// Success reports whether the command exited zero.
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// Command describes a single external invocation.
type Command struct {
	Path string
	Args []string
	Dir  string
	Env  []string // appended to the parent environment when non-empty
}

// String renders the command line for display.
func (c Command) String() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}

// Runner executes commands, optionally teeing their output to live
// writers while capturing it for the result.
type Runner struct {
	// Stdout and Stderr, when non-nil, receive command output as it is
	// produced, in addition to the captured result. The lifecycle suite
	// wires these to the console so the CLI writes through like it did
	// under the shell driver.
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes the command and blocks until it exits or ctx is done.
//
// A nonzero exit is not an error: it is returned in Result.ExitCode.
// An error means the command never ran to completion: the binary could
// not be started, or ctx was canceled and the process was killed.
func (r *Runner) Run(ctx context.Context, cmd Command) (*Result, error) {
	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(c.Environ(), cmd.Env...)
	}

	var outBuf, errBuf bytes.Buffer
	c.Stdout = teeWriter(&outBuf, r.Stdout)
	c.Stderr = teeWriter(&errBuf, r.Stderr)

	start := time.Now()
	err := c.Run()
	result := &Result{
		Cmd:      cmd.String(),
		Stdout:   outBuf.String(),
		Stderr:   errBuf.String(),
		Duration: time.Since(start),
	}

	if err == nil {
		return result, nil
	}

	// Context death wins over whatever exit status the kill produced.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("%s: %w", cmd.Path, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}

	// Never started: missing binary, permission denied, bad working dir.
	return nil, fmt.Errorf("failed to start %s: %w", cmd.Path, err)
}

func teeWriter(capture io.Writer, live io.Writer) io.Writer {
	if live == nil {
		return capture
	}
	return io.MultiWriter(capture, live)
}
