package run

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jorgito1167/flintcheck/internal/cmdutil"
	"github.com/jorgito1167/flintcheck/internal/config"
	"github.com/jorgito1167/flintcheck/internal/execx"
	"github.com/jorgito1167/flintcheck/internal/flintrock"
	"github.com/jorgito1167/flintcheck/internal/iostreams"
	"github.com/jorgito1167/flintcheck/internal/logger"
	"github.com/jorgito1167/flintcheck/internal/suite"
)

// RunOptions holds options for the run command.
type RunOptions struct {
	IOStreams *iostreams.IOStreams
	Config    func() (*config.Config, error)

	// Flag overrides; applied over the loaded config when set.
	Cluster           string
	Slaves            int
	Binary            string
	Confirm           string
	StepTimeout       time.Duration
	TeardownOnFailure bool
	ReportDir         string

	clusterSet     bool
	slavesSet      bool
	binarySet      bool
	confirmSet     bool
	stepTimeoutSet bool
	teardownSet    bool
	reportDirSet   bool
}

// NewCmdRun creates the run command.
func NewCmdRun(f *cmdutil.Factory, runF func(context.Context, *RunOptions) error) *cobra.Command {
	opts := &RunOptions{
		IOStreams: f.IOStreams,
		Config:    f.Config,
	}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the cluster lifecycle suite against the CLI",
		Long: `Runs the full lifecycle suite against the configured cluster CLI:
launch, describe, duplicate-launch rejection, stop, start, destroy.

Steps run strictly in order and the suite aborts at the first unexpected
result. The two duplicate-launch steps are negative-path assertions:
they must fail with exit code exactly 1, and any other outcome
(including success) fails the run.

Exit code: 0 when every step meets its expectation; 1 when a negative
assertion observes the wrong code; otherwise the exit code of the first
unexpectedly-failing step.

Note: a failed run leaves any partially-created cluster behind unless
--teardown-on-failure is set.`,
		Example: `  # Run with defaults (flintrock on PATH, cluster "integration-test")
  flintcheck run

  # Run against a local build of the CLI with a custom cluster name
  flintcheck run --cli ./flintrock --cluster smoke-test

  # Bound each step and clean up on failure
  flintcheck run --step-timeout 20m --teardown-on-failure`,
		Args: cmdutil.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.clusterSet = cmd.Flags().Changed("cluster")
			opts.slavesSet = cmd.Flags().Changed("num-slaves")
			opts.binarySet = cmd.Flags().Changed("cli")
			opts.confirmSet = cmd.Flags().Changed("confirm")
			opts.stepTimeoutSet = cmd.Flags().Changed("step-timeout")
			opts.teardownSet = cmd.Flags().Changed("teardown-on-failure")
			opts.reportDirSet = cmd.Flags().Changed("report-dir")
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return runRun(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Cluster, "cluster", "", "Cluster name to exercise (default from config)")
	cmd.Flags().IntVar(&opts.Slaves, "num-slaves", 0, "Number of worker nodes to launch (default from config)")
	cmd.Flags().StringVar(&opts.Binary, "cli", "", "Path of the cluster CLI executable (default from config)")
	cmd.Flags().Var(cmdutil.NewChoiceValue(&opts.Confirm, "", config.ConfirmFlag, config.ConfirmPTY),
		"confirm", "How stop/destroy prompts are answered: flag (--assume-yes) or pty")
	cmd.Flags().DurationVar(&opts.StepTimeout, "step-timeout", 0, "Per-step timeout; 0 blocks indefinitely")
	cmd.Flags().BoolVar(&opts.TeardownOnFailure, "teardown-on-failure", false, "Destroy the cluster after a fatal step (best effort)")
	cmd.Flags().StringVar(&opts.ReportDir, "report-dir", "", "Directory for JSON run reports")

	return cmd
}

func runRun(ctx context.Context, opts *RunOptions) error {
	ios := opts.IOStreams

	cfg, err := opts.Config()
	if err != nil {
		return err
	}
	applyOverrides(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return err
	}

	runID := uuid.NewString()[:8]
	logger.SetContext(cfg.Cluster.Name, runID)
	defer logger.ClearContext()

	logger.Info().
		Str("cli", cfg.CLI.Binary).
		Int("slaves", cfg.Cluster.Slaves).
		Msg("starting lifecycle run")

	// One run per cluster name at a time.
	locksDir, err := config.LocksDir()
	if err != nil {
		return fmt.Errorf("failed to resolve locks directory: %w", err)
	}
	release, err := suite.AcquireRunLock(locksDir, cfg.Cluster.Name)
	if err != nil {
		return err
	}
	defer func() {
		if err := release(); err != nil {
			logger.Warn().Err(err).Msg("failed to release run lock")
		}
	}()

	runner := &execx.Runner{Stdout: ios.Out, Stderr: ios.ErrOut}
	client, err := flintrock.NewClient(cfg.CLI.Binary, cfg.CLI.ExtraArgs,
		cfg.CLI.Confirm == config.ConfirmPTY, runner)
	if err != nil {
		return err
	}

	sr := &suite.Runner{IO: ios, StepTimeout: cfg.Run.StepTimeout}
	report, runErr := sr.Run(ctx, suite.LifecycleSteps(client, cfg.Cluster.Name, cfg.Cluster.Slaves))
	report.RunID = runID
	report.Cluster = cfg.Cluster.Name

	writeReport(cfg, report)

	if runErr == nil {
		return nil
	}

	if cfg.Run.TeardownOnFailure {
		ios.PrintWarning("tearing down cluster %s after failure", cfg.Cluster.Name)
		suite.Teardown(ctx, client, cfg.Cluster.Name)
	} else {
		ios.PrintWarning("cluster %s may be left behind; destroy it by hand", cfg.Cluster.Name)
	}

	var failure *suite.StepFailureError
	if errors.As(runErr, &failure) {
		// The failure has been reported step by step already.
		return &cmdutil.ExitError{Code: failure.Code}
	}
	return runErr
}

// applyOverrides layers explicitly-set flags over the loaded config.
func applyOverrides(cfg *config.Config, opts *RunOptions) {
	if opts.clusterSet {
		cfg.Cluster.Name = opts.Cluster
	}
	if opts.slavesSet {
		cfg.Cluster.Slaves = opts.Slaves
	}
	if opts.binarySet {
		cfg.CLI.Binary = opts.Binary
	}
	if opts.confirmSet {
		cfg.CLI.Confirm = opts.Confirm
	}
	if opts.stepTimeoutSet {
		cfg.Run.StepTimeout = opts.StepTimeout
	}
	if opts.teardownSet {
		cfg.Run.TeardownOnFailure = opts.TeardownOnFailure
	}
	if opts.reportDirSet {
		cfg.Report.Dir = opts.ReportDir
	}
}

// writeReport writes the JSON run report, best effort.
func writeReport(cfg *config.Config, report *suite.Report) {
	dir := cfg.Report.Dir
	if dir == "" {
		var err error
		dir, err = config.ReportsDir()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to resolve reports directory; skipping report")
			return
		}
	}
	path, err := report.Write(dir)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to write run report")
		return
	}
	logger.Info().Str("path", path).Msg("run report written")
}
