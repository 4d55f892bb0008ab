package receipt

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestAcquireLock(t *testing.T) {
	s := newTestStore(t)

	lock, err := s.AcquireLock()
	if err != nil {
		t.Fatalf("AcquireLock() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(s.Dir(), lockFile)); err != nil {
		t.Errorf("lock file missing: %v", err)
	}

	// flock locks are per open file description, so a second handle in the
	// same process conflicts just like another process would.
	if _, err := s.AcquireLock(); !errors.Is(err, ErrLocked) {
		t.Fatalf("second AcquireLock() = %v, want ErrLocked", err)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}

	again, err := s.AcquireLock()
	if err != nil {
		t.Fatalf("AcquireLock() after release error = %v", err)
	}
	if err := again.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
}

func TestReleaseNil(t *testing.T) {
	var l *Lock
	if err := l.Release(); err != nil {
		t.Errorf("nil Release() = %v", err)
	}
}
