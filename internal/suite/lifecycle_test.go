package suite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jorgito1167/flintcheck/internal/execx"
	"github.com/jorgito1167/flintcheck/internal/flintrock"
	"github.com/jorgito1167/flintcheck/internal/iostreams"
)

// fakeCLIScript implements the cluster CLI's lifecycle surface over a
// state directory: one file per cluster, duplicate launches rejected
// with exit 1.
const fakeCLIScript = `#!/bin/sh
state=%q
cmd="$1"; shift
case "$cmd" in
  launch)
    name="$1"
    if [ -e "$state/$name" ]; then
      echo "Cluster $name already exists." >&2
      exit 1
    fi
    echo running > "$state/$name"
    ;;
  describe)
    if [ $# -eq 0 ]; then
      ls "$state"
      exit 0
    fi
    name="$1"
    if [ ! -e "$state/$name" ]; then
      echo "No cluster $name." >&2
      exit 3
    fi
    cat "$state/$name"
    ;;
  stop)
    name="$1"
    echo stopped > "$state/$name"
    ;;
  start)
    name="$1"
    echo running > "$state/$name"
    ;;
  destroy)
    name="$1"
    rm -f "$state/$name"
    ;;
  *)
    echo "unknown subcommand $cmd" >&2
    exit 64
    ;;
esac
exit 0
`

func writeFakeCLI(t *testing.T) (binary, stateDir string) {
	t.Helper()
	dir := t.TempDir()
	stateDir = filepath.Join(dir, "state")
	require.NoError(t, os.MkdirAll(stateDir, 0755))

	binary = filepath.Join(dir, "flintrock")
	script := fmt.Sprintf(fakeCLIScript, stateDir)
	require.NoError(t, os.WriteFile(binary, []byte(script), 0755))
	return binary, stateDir
}

func TestLifecycleStepsFullRun(t *testing.T) {
	binary, stateDir := writeFakeCLI(t)

	client, err := flintrock.NewClient(binary, "", false, &execx.Runner{})
	require.NoError(t, err)

	ios, _, _, _ := iostreams.Test()
	r := &Runner{IO: ios}

	steps := LifecycleSteps(client, "integration-test", 1)
	require.Len(t, steps, 9)

	report, err := r.Run(context.Background(), steps)
	require.NoError(t, err)

	assert.True(t, report.Passed)
	require.Len(t, report.Steps, 9)
	for _, s := range report.Steps {
		assert.Equal(t, StatusPassed, s.Status, "step %s", s.Name)
	}

	// Destroy ran last: no cluster state left behind.
	entries, err := os.ReadDir(stateDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLifecycleStepOrder(t *testing.T) {
	binary, _ := writeFakeCLI(t)
	client, err := flintrock.NewClient(binary, "", false, &execx.Runner{})
	require.NoError(t, err)

	var names []string
	var expects []int
	for _, s := range LifecycleSteps(client, "integration-test", 1) {
		names = append(names, s.Name)
		expects = append(expects, s.ExpectCode)
	}

	assert.Equal(t, []string{
		"launch",
		"describe-running",
		"launch-duplicate-running",
		"stop",
		"describe-stopped",
		"launch-duplicate-stopped",
		"start",
		"destroy",
		"describe-all",
	}, names)
	assert.Equal(t, []int{0, 0, 1, 0, 0, 1, 0, 0, 0}, expects)
}

func TestLifecyclePreexistingClusterFailsFirstStep(t *testing.T) {
	binary, stateDir := writeFakeCLI(t)

	// Dirty environment: the cluster name is already taken.
	require.NoError(t, os.WriteFile(filepath.Join(stateDir, "integration-test"), []byte("running\n"), 0644))

	client, err := flintrock.NewClient(binary, "", false, &execx.Runner{})
	require.NoError(t, err)

	ios, _, _, _ := iostreams.Test()
	r := &Runner{IO: ios}

	report, err := r.Run(context.Background(), LifecycleSteps(client, "integration-test", 1))
	require.Error(t, err)

	var failure *StepFailureError
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "launch", failure.Step)
	// The driver's exit code equals the first failing step's own code.
	assert.Equal(t, 1, failure.Code)

	// Nothing past the first step ran.
	for _, s := range report.Steps[1:] {
		assert.Equal(t, StatusSkipped, s.Status, "step %s", s.Name)
	}
}

func TestTeardownDestroysCluster(t *testing.T) {
	binary, stateDir := writeFakeCLI(t)

	clusterFile := filepath.Join(stateDir, "integration-test")
	require.NoError(t, os.WriteFile(clusterFile, []byte("running\n"), 0644))

	client, err := flintrock.NewClient(binary, "", false, &execx.Runner{})
	require.NoError(t, err)

	Teardown(context.Background(), client, "integration-test")

	assert.NoFileExists(t, clusterFile)
}
