package suite

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jorgito1167/flintcheck/internal/execx"
	"github.com/jorgito1167/flintcheck/internal/iostreams"
)

func fixedStep(name string, expect, exit int) Step {
	return Step{
		Name:       name,
		Title:      name,
		ExpectCode: expect,
		Run: func(ctx context.Context) (*execx.Result, error) {
			return &execx.Result{Cmd: "fake " + name, ExitCode: exit, Duration: time.Millisecond}, nil
		},
	}
}

func testRunner() (*Runner, *iostreams.IOStreams) {
	ios, _, _, _ := iostreams.Test()
	return &Runner{IO: ios}, ios
}

func TestRunAllStepsPass(t *testing.T) {
	r, _ := testRunner()

	report, err := r.Run(context.Background(), []Step{
		fixedStep("launch", 0, 0),
		fixedStep("launch-duplicate", 1, 1),
		fixedStep("destroy", 0, 0),
	})
	require.NoError(t, err)

	assert.True(t, report.Passed)
	assert.Empty(t, report.FailedStep)
	require.Len(t, report.Steps, 3)
	for _, s := range report.Steps {
		assert.Equal(t, StatusPassed, s.Status)
	}
}

func TestRunFailFastPropagatesExitCode(t *testing.T) {
	r, _ := testRunner()

	report, err := r.Run(context.Background(), []Step{
		fixedStep("launch", 0, 5),
		fixedStep("describe", 0, 0),
	})
	require.Error(t, err)

	var failure *StepFailureError
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "launch", failure.Step)
	// Unexpected failure of a must-succeed step propagates the step's
	// own exit code.
	assert.Equal(t, 5, failure.Code)

	assert.False(t, report.Passed)
	assert.Equal(t, "launch", report.FailedStep)
	require.Len(t, report.Steps, 2)
	assert.Equal(t, StatusFailed, report.Steps[0].Status)
	assert.Equal(t, StatusSkipped, report.Steps[1].Status)
}

func TestRunNegativeAssertionMismatchExitsOne(t *testing.T) {
	tests := []struct {
		name     string
		observed int
	}{
		{"unexpected success", 0},
		{"wrong failure code", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := testRunner()

			_, err := r.Run(context.Background(), []Step{
				fixedStep("launch-duplicate", 1, tt.observed),
			})
			require.Error(t, err)

			var failure *StepFailureError
			require.ErrorAs(t, err, &failure)
			// Any mismatch on a negative-path step fails the run with
			// exactly 1, regardless of the observed code.
			assert.Equal(t, 1, failure.Code)
			assert.Equal(t, tt.observed, failure.Observed)
			assert.Equal(t, 1, failure.Expected)
		})
	}
}

func TestRunNegativeAssertionMatchContinues(t *testing.T) {
	r, _ := testRunner()

	report, err := r.Run(context.Background(), []Step{
		fixedStep("launch-duplicate", 1, 1),
		fixedStep("stop", 0, 0),
	})
	require.NoError(t, err)
	assert.True(t, report.Passed)
}

func TestRunStepErrorFailsWithOne(t *testing.T) {
	r, _ := testRunner()

	boom := errors.New("failed to start flintrock: no such file")
	report, err := r.Run(context.Background(), []Step{
		{
			Name:  "launch",
			Title: "launch",
			Run: func(ctx context.Context) (*execx.Result, error) {
				return nil, boom
			},
		},
	})
	require.Error(t, err)

	var failure *StepFailureError
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, 1, failure.Code)
	assert.ErrorIs(t, failure, boom)

	require.Len(t, report.Steps, 1)
	assert.Equal(t, StatusError, report.Steps[0].Status)
	assert.Nil(t, report.Steps[0].ExitCode)
}

func TestRunStepTimeout(t *testing.T) {
	r, _ := testRunner()
	r.StepTimeout = 50 * time.Millisecond

	_, err := r.Run(context.Background(), []Step{
		{
			Name:  "launch",
			Title: "launch",
			Run: func(ctx context.Context) (*execx.Result, error) {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(5 * time.Second):
					return &execx.Result{}, nil
				}
			},
		},
	})
	require.Error(t, err)

	var failure *StepFailureError
	require.ErrorAs(t, err, &failure)
	assert.ErrorIs(t, failure, context.DeadlineExceeded)
}

func TestRunPrintsBanners(t *testing.T) {
	ios, _, out, _ := iostreams.Test()
	r := &Runner{IO: ios}

	_, err := r.Run(context.Background(), []Step{
		{
			Name:  "launch",
			Title: "Launching cluster...",
			Run: func(ctx context.Context) (*execx.Result, error) {
				return &execx.Result{}, nil
			},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), " Launching cluster...")
	assert.Contains(t, out.String(), "PASSED")
}

func TestReportWrite(t *testing.T) {
	dir := t.TempDir()
	exit := 0
	report := &Report{
		RunID:   "abc123",
		Cluster: "integration-test",
		Passed:  true,
		Steps: []StepReport{
			{Name: "launch", Cmd: "flintrock launch integration-test --num-slaves 1",
				ExitCode: &exit, Status: StatusPassed},
		},
	}

	path, err := report.Write(dir)
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Contains(t, path, "run-abc123.json")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "integration-test", decoded.Cluster)
	require.Len(t, decoded.Steps, 1)
	assert.Equal(t, StatusPassed, decoded.Steps[0].Status)
}

func TestAcquireRunLock(t *testing.T) {
	dir := t.TempDir()

	release, err := AcquireRunLock(dir, "integration-test")
	require.NoError(t, err)

	// Same cluster is locked.
	_, err = AcquireRunLock(dir, "integration-test")
	assert.ErrorIs(t, err, ErrRunInProgress)

	// A different cluster is not.
	release2, err := AcquireRunLock(dir, "other-cluster")
	require.NoError(t, err)
	require.NoError(t, release2())

	// Released locks can be retaken.
	require.NoError(t, release())
	release3, err := AcquireRunLock(dir, "integration-test")
	require.NoError(t, err)
	require.NoError(t, release3())
}

func TestOutputTailTruncates(t *testing.T) {
	long := make([]byte, 5000)
	for i := range long {
		long[i] = 'x'
	}
	result := &execx.Result{Stdout: string(long), Stderr: "tail-marker"}

	tail := outputTail(result)
	assert.LessOrEqual(t, len(tail), tailLimit)
	assert.Contains(t, tail, "tail-marker")
}
