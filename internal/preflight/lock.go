package preflight

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"slimsamples/internal/services"
)

// RunLock is an exclusive lock on a backup tree.
type RunLock struct {
	path string
	lock *flock.Flock
}

// AcquireRunLock takes the lock at path without blocking. It fails when
// another run holds it.
func AcquireRunLock(path string) (*RunLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "preflight", "create lock directory", filepath.Dir(path), err)
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "preflight", "acquire lock", path, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrConfiguration, "preflight", "acquire lock",
			fmt.Sprintf("another run is using this backup directory (%s)", path), nil)
	}
	return &RunLock{path: path, lock: lock}, nil
}

// Path returns the lock file location.
func (l *RunLock) Path() string {
	return l.path
}

// Release unlocks the backup tree.
func (l *RunLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
