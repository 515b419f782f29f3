package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"time"

	"github.com/creack/pty"
)

// promptPattern matches the confirmation prompts the cluster CLI emits
// on stop/destroy when --assume-yes is not passed.
var promptPattern = regexp.MustCompile(`(?i)\[y/n\]|\(y/n\)|\[yes/no\]|proceed\?|are you sure`)

// RunPTY executes the command on a pseudo-terminal, answering each
// detected y/N confirmation prompt with "y". The pty merges stdout and
// stderr, so the captured output lands in Result.Stdout.
//
// This exercises the CLI's interactive prompt path; Run with an
// --assume-yes flag bypasses it.
func (r *Runner) RunPTY(ctx context.Context, cmd Command) (*Result, error) {
	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(c.Environ(), cmd.Env...)
	}

	start := time.Now()
	ptmx, err := pty.Start(c)
	if err != nil {
		return nil, fmt.Errorf("failed to start %s on pty: %w", cmd.Path, err)
	}
	defer ptmx.Close()

	var outBuf bytes.Buffer
	out := teeWriter(&outBuf, r.Stdout)

	// Scan output chunks, answering prompts as they appear. The window
	// carries the tail of the previous chunk so a prompt split across
	// reads is still matched.
	buf := make([]byte, 4096)
	var window []byte
	for {
		n, readErr := ptmx.Read(buf)
		if n > 0 {
			out.Write(buf[:n])
			window = append(window, buf[:n]...)
			if promptPattern.Match(window) {
				if _, werr := ptmx.Write([]byte("y\n")); werr != nil {
					break
				}
				window = window[:0]
			} else if len(window) > 256 {
				window = window[len(window)-256:]
			}
		}
		if readErr != nil {
			// EIO is the normal pty read error once the child exits.
			if readErr != io.EOF && !errors.Is(readErr, ctx.Err()) {
				break
			}
			break
		}
	}

	err = c.Wait()
	result := &Result{
		Cmd:      cmd.String(),
		Stdout:   outBuf.String(),
		Duration: time.Since(start),
	}

	if err == nil {
		return result, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("%s: %w", cmd.Path, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}

	return nil, fmt.Errorf("%s: %w", cmd.Path, err)
}
