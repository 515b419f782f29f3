// Package suite executes an ordered list of named lifecycle steps
// against the cluster CLI, fail-fast, with per-step exit-code
// expectations.
//
// Two kinds of step exist. A must-succeed step expects exit 0 and any
// other result aborts the run, propagating that step's exit code as the
// driver's own. A negative-path step expects one specific nonzero code
// (duplicate-name rejection expects exactly 1); there the runner
// captures the exit code and compares it instead of aborting on
// nonzero, and any mismatch (including unexpected success) fails the
// whole run with driver exit code 1.
package suite

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-units"

	"github.com/jorgito1167/flintcheck/internal/execx"
	"github.com/jorgito1167/flintcheck/internal/iostreams"
	"github.com/jorgito1167/flintcheck/internal/logger"
)

// Step statuses recorded in the run report.
const (
	StatusPassed  = "passed"
	StatusFailed  = "failed"  // ran, exit code did not match the expectation
	StatusError   = "error"   // never produced an exit code (no binary, timeout)
	StatusSkipped = "skipped" // not reached because an earlier step failed
)

// Step is one named CLI invocation with an exit-code expectation.
type Step struct {
	// Name identifies the step in reports and logs.
	Name string
	// Title is the banner text printed before the step runs.
	Title string
	// ExpectCode is the exit code that counts as passing. Zero for
	// must-succeed steps; a specific nonzero code marks a
	// negative-path assertion.
	ExpectCode int
	// Run performs the invocation.
	Run func(ctx context.Context) (*execx.Result, error)
}

// Negative reports whether this step asserts a failure outcome.
func (s Step) Negative() bool {
	return s.ExpectCode != 0
}

// StepFailureError aborts a run at the first unexpected result.
type StepFailureError struct {
	// Step is the name of the failing step.
	Step string
	// Code is the exit code the driver must terminate with.
	Code int
	// Observed and Expected are the compared exit codes when the step
	// ran to completion.
	Observed int
	Expected int
	// Err is set when the step never produced an exit code.
	Err error
}

func (e *StepFailureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("step %s: %v", e.Step, e.Err)
	}
	if e.Expected != 0 {
		return fmt.Sprintf("step %s: expected exit code %d, got %d", e.Step, e.Expected, e.Observed)
	}
	return fmt.Sprintf("step %s: exited with code %d", e.Step, e.Observed)
}

func (e *StepFailureError) Unwrap() error { return e.Err }

// Runner executes steps sequentially with fail-fast semantics.
type Runner struct {
	IO *iostreams.IOStreams

	// StepTimeout bounds each step. Zero means no timeout, matching
	// the historical driver: a hung CLI call blocks indefinitely.
	StepTimeout time.Duration
}

// Run executes the steps in order. It stops at the first unexpected
// result and returns a *StepFailureError carrying the exit code the
// driver must propagate. The returned report always covers every step;
// steps after a failure are recorded as skipped.
func (r *Runner) Run(ctx context.Context, steps []Step) (*Report, error) {
	report := &Report{StartedAt: time.Now().UTC()}
	cs := r.IO.ColorScheme()

	var failure *StepFailureError
	for _, step := range steps {
		if failure != nil {
			report.Steps = append(report.Steps, StepReport{
				Name:     step.Name,
				Expected: step.ExpectCode,
				Status:   StatusSkipped,
			})
			continue
		}

		r.IO.Banner(step.Title)
		logger.Info().Str("step", step.Name).Int("expect", step.ExpectCode).Msg("running step")

		stepCtx := ctx
		var cancel context.CancelFunc
		if r.StepTimeout > 0 {
			stepCtx, cancel = context.WithTimeout(ctx, r.StepTimeout)
		}
		result, err := step.Run(stepCtx)
		if cancel != nil {
			cancel()
		}

		switch {
		case err != nil:
			// Never produced an exit code: missing binary, killed by
			// timeout or signal. There is nothing to propagate, so the
			// driver fails with 1.
			report.Steps = append(report.Steps, StepReport{
				Name:     step.Name,
				Expected: step.ExpectCode,
				Status:   StatusError,
				Detail:   err.Error(),
			})
			r.IO.PrintFailure("%s: %v", step.Name, err)
			failure = &StepFailureError{Step: step.Name, Code: 1, Expected: step.ExpectCode, Err: err}

		case result.ExitCode == step.ExpectCode:
			report.Steps = append(report.Steps, stepReportFrom(step, result, StatusPassed))
			r.IO.PrintSuccess("%s (exit %d, %s)", step.Name, result.ExitCode,
				units.HumanDuration(result.Duration))
			logger.Info().Str("step", step.Name).Int("exit_code", result.ExitCode).
				Dur("duration", result.Duration).Msg("step passed")

		default:
			report.Steps = append(report.Steps, stepReportFrom(step, result, StatusFailed))
			r.IO.PrintFailure("%s: expected exit %d, got %d", step.Name, step.ExpectCode, result.ExitCode)
			logger.Error().Str("step", step.Name).Int("exit_code", result.ExitCode).
				Int("expected", step.ExpectCode).Msg("step failed")

			code := result.ExitCode
			if step.Negative() {
				// A negative assertion that mis-fires always fails the
				// run with 1, even when the CLI unexpectedly exited 0.
				code = 1
			}
			failure = &StepFailureError{
				Step:     step.Name,
				Code:     code,
				Observed: result.ExitCode,
				Expected: step.ExpectCode,
			}
		}
	}

	report.FinishedAt = time.Now().UTC()
	if failure != nil {
		report.FailedStep = failure.Step
		fmt.Fprintf(r.IO.Out, "\n%s\n", cs.Redf("FAILED at step %s after %s",
			failure.Step, units.HumanDuration(report.FinishedAt.Sub(report.StartedAt))))
		return report, failure
	}

	report.Passed = true
	fmt.Fprintf(r.IO.Out, "\n%s\n", cs.Greenf("PASSED %d steps in %s",
		len(steps), units.HumanDuration(report.FinishedAt.Sub(report.StartedAt))))
	return report, nil
}

func stepReportFrom(step Step, result *execx.Result, status string) StepReport {
	return StepReport{
		Name:       step.Name,
		Cmd:        result.Cmd,
		Expected:   step.ExpectCode,
		ExitCode:   &result.ExitCode,
		Status:     status,
		DurationMS: result.Duration.Milliseconds(),
		OutputTail: outputTail(result),
	}
}

// outputTail keeps the last chunk of a step's combined output for the
// report. Full output already went to the console and the log file.
const tailLimit = 2048

func outputTail(result *execx.Result) string {
	combined := result.Stdout
	if result.Stderr != "" {
		if combined != "" {
			combined += "\n"
		}
		combined += result.Stderr
	}
	if len(combined) > tailLimit {
		combined = combined[len(combined)-tailLimit:]
	}
	return combined
}
