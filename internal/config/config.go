// Package config loads and validates flintcheck configuration.
//
// Configuration comes from three layers, lowest to highest precedence:
// built-in defaults, an optional flintcheck.yaml file, and FLINTCHECK_*
// environment variables. Command flags override all three.
package config

import (
	"fmt"
	"time"
)

// Confirm modes for CLI prompts on stop/destroy.
const (
	// ConfirmFlag passes --assume-yes to the CLI.
	ConfirmFlag = "flag"
	// ConfirmPTY drives the CLI's interactive y/N prompt over a pseudo-terminal.
	ConfirmPTY = "pty"
)

// Config is the root configuration for a flintcheck run.
type Config struct {
	Cluster ClusterConfig `mapstructure:"cluster" yaml:"cluster"`
	CLI     CLIConfig     `mapstructure:"cli" yaml:"cli"`
	Run     RunConfig     `mapstructure:"run" yaml:"run"`
	Report  ReportConfig  `mapstructure:"report" yaml:"report"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// ClusterConfig names the cluster resource the suite exercises.
type ClusterConfig struct {
	// Name is the target resource handle for every CLI call in a run.
	Name string `mapstructure:"name" yaml:"name"`
	// Slaves is the number of worker nodes requested at launch.
	Slaves int `mapstructure:"slaves" yaml:"slaves"`
}

// CLIConfig locates and parameterizes the external cluster CLI under test.
type CLIConfig struct {
	// Binary is the path of the CLI executable. Relative paths resolve
	// against the working directory, bare names against PATH.
	Binary string `mapstructure:"binary" yaml:"binary"`
	// ExtraArgs is a shell-style string of arguments appended to every
	// invocation (e.g. a provider profile or config file flag).
	ExtraArgs string `mapstructure:"extra_args" yaml:"extra_args"`
	// Confirm selects how interactive prompts are answered: "flag"
	// (--assume-yes) or "pty" (answer y over a pseudo-terminal).
	Confirm string `mapstructure:"confirm" yaml:"confirm"`
}

// RunConfig tunes suite execution.
type RunConfig struct {
	// StepTimeout bounds each CLI invocation. Zero means no timeout:
	// a hung CLI call blocks the run indefinitely, matching the
	// historical driver behavior.
	StepTimeout time.Duration `mapstructure:"step_timeout" yaml:"step_timeout"`
	// TeardownOnFailure destroys the cluster (best effort) after a
	// fatal step, instead of leaving partially-created infrastructure
	// behind. Off by default.
	TeardownOnFailure bool `mapstructure:"teardown_on_failure" yaml:"teardown_on_failure"`
}

// ReportConfig controls run report output.
type ReportConfig struct {
	// Dir is where JSON run reports are written. Empty means the
	// reports directory under the flintcheck home.
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// LoggingConfig controls file-based logging.
type LoggingConfig struct {
	FileEnabled *bool `mapstructure:"file_enabled" yaml:"file_enabled,omitempty"`
	MaxSizeMB   int   `mapstructure:"max_size_mb" yaml:"max_size_mb,omitempty"`
	MaxAgeDays  int   `mapstructure:"max_age_days" yaml:"max_age_days,omitempty"`
	MaxBackups  int   `mapstructure:"max_backups" yaml:"max_backups,omitempty"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Cluster: ClusterConfig{
			Name:   "integration-test",
			Slaves: 1,
		},
		CLI: CLIConfig{
			Binary:  "flintrock",
			Confirm: ConfirmFlag,
		},
		Run: RunConfig{
			StepTimeout:       0,
			TeardownOnFailure: false,
		},
	}
}

// Validate checks the configuration for values the suite cannot run with.
func (c *Config) Validate() error {
	if c.Cluster.Name == "" {
		return fmt.Errorf("cluster.name must not be empty")
	}
	if c.Cluster.Slaves < 1 {
		return fmt.Errorf("cluster.slaves must be at least 1, got %d", c.Cluster.Slaves)
	}
	if c.CLI.Binary == "" {
		return fmt.Errorf("cli.binary must not be empty")
	}
	if c.CLI.Confirm != ConfirmFlag && c.CLI.Confirm != ConfirmPTY {
		return fmt.Errorf("cli.confirm must be %q or %q, got %q", ConfirmFlag, ConfirmPTY, c.CLI.Confirm)
	}
	if c.Run.StepTimeout < 0 {
		return fmt.Errorf("run.step_timeout must not be negative")
	}
	return nil
}
