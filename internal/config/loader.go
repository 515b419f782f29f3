package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the default configuration file name
	ConfigFileName = "flintcheck.yaml"
	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "FLINTCHECK"
)

// Loader handles loading and parsing of flintcheck configuration
type Loader struct {
	workDir    string
	configFile string // explicit path; empty means <workDir>/flintcheck.yaml
	viper      *viper.Viper
}

// NewLoader creates a new configuration loader for the given working directory
func NewLoader(workDir string) *Loader {
	return &Loader{
		workDir: workDir,
		viper:   viper.New(),
	}
}

// SetConfigFile sets an explicit configuration file path.
func (l *Loader) SetConfigFile(path string) {
	l.configFile = path
}

// Load reads the configuration file (if present), applies environment
// overrides, and returns the merged configuration.
//
// A missing default config file is not an error: the suite runs with
// built-in defaults. A missing explicitly-requested file is.
func (l *Loader) Load() (*Config, error) {
	configPath := l.configFile
	explicit := configPath != ""
	if !explicit {
		configPath = filepath.Join(l.workDir, ConfigFileName)
	}

	defaults := DefaultConfig()
	l.viper.SetDefault("cluster.name", defaults.Cluster.Name)
	l.viper.SetDefault("cluster.slaves", defaults.Cluster.Slaves)
	l.viper.SetDefault("cli.binary", defaults.CLI.Binary)
	l.viper.SetDefault("cli.extra_args", defaults.CLI.ExtraArgs)
	l.viper.SetDefault("cli.confirm", defaults.CLI.Confirm)
	l.viper.SetDefault("run.step_timeout", defaults.Run.StepTimeout)
	l.viper.SetDefault("run.teardown_on_failure", defaults.Run.TeardownOnFailure)
	l.viper.SetDefault("report.dir", "")

	// FLINTCHECK_CLI_BINARY overrides cli.binary, and so on
	l.viper.SetEnvPrefix(EnvPrefix)
	l.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.viper.AutomaticEnv()

	if _, err := os.Stat(configPath); err == nil {
		l.viper.SetConfigFile(configPath)
		l.viper.SetConfigType("yaml")
		if err := l.viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	} else if explicit {
		return nil, &ConfigNotFoundError{Path: configPath}
	}

	var cfg Config
	if err := l.viper.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ConfigNotFoundError indicates an explicitly-requested config file is missing.
type ConfigNotFoundError struct {
	Path string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("config file not found: %s", e.Path)
}
