package suite

import (
	"context"
	"time"

	"github.com/jorgito1167/flintcheck/internal/execx"
	"github.com/jorgito1167/flintcheck/internal/flintrock"
	"github.com/jorgito1167/flintcheck/internal/logger"
)

// duplicateRejectedCode is the exit code the CLI uses to signal that a
// cluster name is already taken, distinct from its other failure codes.
const duplicateRejectedCode = 1

// LifecycleSteps builds the full lifecycle suite for one cluster:
//
//	absent → running → stopped → running → destroyed
//
// Each transition is driven through the CLI and checked only by its
// exit code. The two duplicate-launch steps assert that name-collision
// detection holds both while the cluster runs and while it is stopped:
// launch is deliberately not idempotent, and that is the property under
// test.
func LifecycleSteps(client *flintrock.Client, cluster string, slaves int) []Step {
	return []Step{
		{
			Name:  "launch",
			Title: "Launching cluster...",
			Run: func(ctx context.Context) (*execx.Result, error) {
				return client.Launch(ctx, cluster, slaves)
			},
		},
		{
			Name:  "describe-running",
			Title: "Describing cluster...",
			Run: func(ctx context.Context) (*execx.Result, error) {
				return client.Describe(ctx, cluster)
			},
		},
		{
			Name:       "launch-duplicate-running",
			Title:      "Launching duplicate cluster (should fail)...",
			ExpectCode: duplicateRejectedCode,
			Run: func(ctx context.Context) (*execx.Result, error) {
				return client.Launch(ctx, cluster, slaves)
			},
		},
		{
			Name:  "stop",
			Title: "Stopping cluster...",
			Run: func(ctx context.Context) (*execx.Result, error) {
				return client.Stop(ctx, cluster)
			},
		},
		{
			Name:  "describe-stopped",
			Title: "Describing stopped cluster...",
			Run: func(ctx context.Context) (*execx.Result, error) {
				return client.Describe(ctx, cluster)
			},
		},
		{
			Name:       "launch-duplicate-stopped",
			Title:      "Launching duplicate of stopped cluster (should fail)...",
			ExpectCode: duplicateRejectedCode,
			Run: func(ctx context.Context) (*execx.Result, error) {
				return client.Launch(ctx, cluster, slaves)
			},
		},
		{
			Name:  "start",
			Title: "Starting stopped cluster...",
			// Verifying an interactive login session after start cannot
			// be automated here; that check is a known, intentional gap.
			Run: func(ctx context.Context) (*execx.Result, error) {
				return client.Start(ctx, cluster)
			},
		},
		{
			Name:  "destroy",
			Title: "Destroying cluster...",
			Run: func(ctx context.Context) (*execx.Result, error) {
				return client.Destroy(ctx, cluster)
			},
		},
		{
			Name:  "describe-all",
			Title: "Describing all clusters...",
			// Only the exit code is asserted. That the destroyed
			// cluster no longer appears in the listing is verified by
			// the human reading the output, not automated.
			Run: func(ctx context.Context) (*execx.Result, error) {
				return client.Describe(ctx, "")
			},
		},
	}
}

// PlanEntry is one row of the dry-run plan: the command a step would
// run and the exit code it expects.
type PlanEntry struct {
	Name       string
	ExpectCode int
	Cmd        string
}

// LifecyclePlan renders the lifecycle suite as command lines without
// executing anything. Rows appear in execution order and mirror
// LifecycleSteps exactly.
func LifecyclePlan(client *flintrock.Client, cluster string, slaves int) []PlanEntry {
	argvs := [][]string{
		client.LaunchArgs(cluster, slaves),
		client.DescribeArgs(cluster),
		client.LaunchArgs(cluster, slaves),
		client.StopArgs(cluster),
		client.DescribeArgs(cluster),
		client.LaunchArgs(cluster, slaves),
		client.StartArgs(cluster),
		client.DestroyArgs(cluster),
		client.DescribeArgs(""),
	}

	steps := LifecycleSteps(client, cluster, slaves)
	entries := make([]PlanEntry, len(steps))
	for i, step := range steps {
		entries[i] = PlanEntry{
			Name:       step.Name,
			ExpectCode: step.ExpectCode,
			Cmd:        execx.Command{Path: client.Binary(), Args: argvs[i]}.String(),
		}
	}
	return entries
}

// Teardown destroys the cluster after a fatal step, best effort. It is
// only invoked when teardown-on-failure is enabled; by default a failed
// run leaves infrastructure behind exactly as the historical driver
// did, and the operator cleans up by hand.
func Teardown(ctx context.Context, client *flintrock.Client, cluster string) {
	// A fresh context: the run context may already be canceled.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Minute)
	defer cancel()

	result, err := client.Destroy(ctx, cluster)
	if err != nil {
		logger.Warn().Err(err).Str("cluster", cluster).Msg("teardown: destroy did not run; cluster may be orphaned")
		return
	}
	if !result.Success() {
		logger.Warn().Int("exit_code", result.ExitCode).Str("cluster", cluster).
			Msg("teardown: destroy failed; cluster may be orphaned")
		return
	}
	logger.Info().Str("cluster", cluster).Msg("teardown: cluster destroyed")
}
