package root

import (
	"github.com/spf13/cobra"

	plancmd "github.com/jorgito1167/flintcheck/internal/cmd/plan"
	runcmd "github.com/jorgito1167/flintcheck/internal/cmd/run"
	versioncmd "github.com/jorgito1167/flintcheck/internal/cmd/version"
	"github.com/jorgito1167/flintcheck/internal/cmdutil"
	internalconfig "github.com/jorgito1167/flintcheck/internal/config"
	"github.com/jorgito1167/flintcheck/internal/logger"
)

// NewCmdRoot creates the root command for the flintcheck CLI.
func NewCmdRoot(f *cmdutil.Factory, version, commit string) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "flintcheck",
		Short: "Exercise a cluster CLI through its full lifecycle",
		Long: `Flintcheck drives an external cluster-management CLI through a fixed
lifecycle (launch, describe, stop, start, destroy) and verifies each
step by its exit code, including that duplicate launches are rejected.

Quick start:
  flintcheck plan        # Show the steps a run would execute
  flintcheck run         # Run the lifecycle suite against flintrock on PATH

The suite creates real infrastructure through the CLI under test; point
it at a throwaway cluster name and account.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Annotations: map[string]string{
			"versionInfo": versioncmd.Format(version, commit),
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initializeLogger(f)

			logger.Debug().
				Str("version", f.Version).
				Bool("debug", f.Debug).
				Msg("flintcheck starting")

			return nil
		},
		Version: f.Version,
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&f.Debug, "debug", "D", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&f.ConfigFile, "config", "", "Path of the flintcheck config file")

	// Version template
	cmd.SetVersionTemplate(versioncmd.Format(version, commit) + "\n")

	cmd.AddCommand(runcmd.NewCmdRun(f, nil))
	cmd.AddCommand(plancmd.NewCmdPlan(f, nil))
	cmd.AddCommand(versioncmd.NewCmdVersion(f, version, commit))

	return cmd, nil
}

// initializeLogger sets up the logger with file logging if possible.
// Falls back to console-only logging on any errors.
func initializeLogger(f *cmdutil.Factory) {
	cfg, err := f.Config()
	if err != nil {
		logger.Init(f.Debug)
		logger.Warn().Err(err).Msg("file logging unavailable: failed to load config")
		return
	}

	logsDir, err := internalconfig.LogsDir()
	if err != nil {
		logger.Init(f.Debug)
		logger.Warn().Err(err).Msg("file logging unavailable: failed to get logs directory")
		return
	}

	logCfg := &logger.LoggingConfig{
		FileEnabled: cfg.Logging.FileEnabled,
		MaxSizeMB:   cfg.Logging.MaxSizeMB,
		MaxAgeDays:  cfg.Logging.MaxAgeDays,
		MaxBackups:  cfg.Logging.MaxBackups,
	}

	if err := logger.InitWithFile(f.Debug, logsDir, logCfg); err != nil {
		logger.Init(f.Debug)
		logger.Warn().Err(err).Msg("file logging unavailable: failed to initialize file writer")
	}
}
