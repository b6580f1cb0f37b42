package repo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// StoreLock enforces single-instance access to the data directory across
// processes. The whole-document read-modify-write cycle is only safe when
// exactly one server process owns the tree, so main acquires this lock
// before accepting traffic and holds it for the process lifetime.
type StoreLock struct {
	path string
	lock *flock.Flock
}

// NewStoreLock prepares a lock file at dataDir/pano360.lock.
// The lock is not acquired until Acquire is called.
func NewStoreLock(dataDir string) *StoreLock {
	path := filepath.Join(dataDir, "pano360.lock")
	return &StoreLock{path: path, lock: flock.New(path)}
}

// Acquire takes the lock without blocking. It fails when another server
// instance already holds it.
func (l *StoreLock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("repo.StoreLock.Acquire: %w", err)
	}
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("repo.StoreLock.Acquire: %w", err)
	}
	if !ok {
		return fmt.Errorf("repo.StoreLock.Acquire: another server instance holds %s", l.path)
	}
	return nil
}

// Release gives the lock back. Safe to call even if Acquire failed.
func (l *StoreLock) Release() error {
	return l.lock.Unlock()
}

// Path returns the lock file location, for logging.
func (l *StoreLock) Path() string {
	return l.path
}
