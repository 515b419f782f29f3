// Package acceptance provides acceptance tests using testscript.
// Each script drives the flintcheck binary against a stub cluster CLI
// and asserts on its output and exit status.
//
// Run with: go test ./test/cli/... -v
package acceptance

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/jorgito1167/flintcheck/internal/flintcheck"
)

// envScript filters the run to a single script, e.g.
// FLINTCHECK_ACCEPTANCE_SCRIPT=run-pass.txtar
const envScript = "FLINTCHECK_ACCEPTANCE_SCRIPT"

// TestMain sets up the testscript environment
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"flintcheck": flintcheck.Main,
	}))
}

func TestScripts(t *testing.T) {
	pattern := filepath.Join("testdata", "*.txtar")
	if single := os.Getenv(envScript); single != "" {
		pattern = filepath.Join("testdata", single)
	}
	matches, _ := filepath.Glob(pattern)
	if len(matches) == 0 {
		t.Skipf("No test scripts found matching %s", pattern)
	}

	testscript.Run(t, testscript.Params{
		Dir: "testdata",
		Setup: func(e *testscript.Env) error {
			// Isolate home so logs, reports and locks stay in the sandbox.
			e.Setenv("FLINTCHECK_HOME", filepath.Join(e.WorkDir, ".flintcheck"))
			e.Setenv("HOME", e.WorkDir)
			return nil
		},
		RequireExplicitExec: true,
		RequireUniqueNames:  true,
	})
}
