package cmdutil

import (
	"os"
	"sync"

	"github.com/jorgito1167/flintcheck/internal/config"
	"github.com/jorgito1167/flintcheck/internal/iostreams"
)

// Factory provides shared dependencies for CLI commands.
// It is a dependency injection container: commands extract only the
// fields they need into per-command Options structs.
type Factory struct {
	// Configuration from flags (set before command execution)
	WorkDir    string
	ConfigFile string
	Debug      bool

	// Version info (set at build time via ldflags)
	Version string
	Commit  string

	// IO streams for input/output (for testability)
	IOStreams *iostreams.IOStreams

	// Dependency providers (lazy)
	Config      func() (*config.Config, error)
	ResetConfig func()
}

// New creates a Factory wired to the real environment.
func New(version, commit string) *Factory {
	f := &Factory{
		Version:   version,
		Commit:    commit,
		IOStreams: iostreams.NewIOStreams(),
	}

	if wd, err := os.Getwd(); err == nil {
		f.WorkDir = wd
	}

	var (
		mu     sync.Mutex
		cached *config.Config
		cerr   error
		loaded bool
	)
	f.Config = func() (*config.Config, error) {
		mu.Lock()
		defer mu.Unlock()
		if !loaded {
			loader := config.NewLoader(f.WorkDir)
			if f.ConfigFile != "" {
				loader.SetConfigFile(f.ConfigFile)
			}
			cached, cerr = loader.Load()
			loaded = true
		}
		return cached, cerr
	}
	f.ResetConfig = func() {
		mu.Lock()
		defer mu.Unlock()
		cached, cerr, loaded = nil, nil, false
	}

	return f
}
