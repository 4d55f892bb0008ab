package receipt

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked means another installer process holds the install lock.
var ErrLocked = errors.New("install lock held: another snklog-install run is in progress")

// Lock is an exclusive advisory lock on the state directory.
type Lock struct {
	fl *flock.Flock
}

// AcquireLock takes the install lock without waiting. The kernel drops the
// lock if the process dies, so there is no stale-lock handling.
func (s *Store) AcquireLock() (*Lock, error) {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	fl := flock.New(filepath.Join(s.dir, lockFile))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire install lock: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}
	return &Lock{fl: fl}, nil
}

// Release unlocks. The lock file itself is left in place.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("release install lock: %w", err)
	}
	return nil
}
