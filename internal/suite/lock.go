package suite

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrRunInProgress indicates another flintcheck run holds the lock for
// the same cluster name.
var ErrRunInProgress = fmt.Errorf("another run is already in progress for this cluster")

// AcquireRunLock takes an exclusive file lock for the cluster name,
// serializing concurrent runs against the same cluster resource. The
// suite has exactly one logical actor per cluster by construction; the
// lock extends that discipline across processes.
//
// The returned release function must be called when the run finishes.
func AcquireRunLock(dir, cluster string) (release func() error, err error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, cluster+".lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire run lock for %q: %w", cluster, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrRunInProgress, cluster)
	}

	return lock.Unlock, nil
}
