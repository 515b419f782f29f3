package config

import (
	"os"
	"path/filepath"
)

const (
	// HomeEnv is the environment variable overriding the flintcheck home directory
	HomeEnv = "FLINTCHECK_HOME"
	// DefaultHomeDir is the default directory name under user home
	DefaultHomeDir = ".flintcheck"
	// LogsSubdir is the subdirectory for rotated log files
	LogsSubdir = "logs"
	// ReportsSubdir is the subdirectory for JSON run reports
	ReportsSubdir = "reports"
	// LocksSubdir is the subdirectory for per-cluster run locks
	LocksSubdir = "locks"
)

// Home returns the flintcheck home directory.
// It checks FLINTCHECK_HOME environment variable first, then defaults to ~/.flintcheck
func Home() (string, error) {
	if home := os.Getenv(HomeEnv); home != "" {
		return home, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultHomeDir), nil
}

// LogsDir returns the log file directory (~/.flintcheck/logs)
func LogsDir() (string, error) {
	home, err := Home()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, LogsSubdir), nil
}

// ReportsDir returns the run report directory (~/.flintcheck/reports)
func ReportsDir() (string, error) {
	home, err := Home()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ReportsSubdir), nil
}

// LocksDir returns the run lock directory (~/.flintcheck/locks)
func LocksDir() (string, error) {
	home, err := Home()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, LocksSubdir), nil
}

// EnsureDir creates a directory if it doesn't exist
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
