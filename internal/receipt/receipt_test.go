package receipt

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "state"), FixedClock{Time: time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return s
}

func TestNewStore_RequiresDir(t *testing.T) {
	if _, err := NewStore("", nil); err == nil {
		t.Fatal("expected error for empty dir")
	}
}

func TestStoreNew(t *testing.T) {
	s := newTestStore(t)
	r := s.New()

	if r.Version != SchemaVersion {
		t.Errorf("Version = %d, want %d", r.Version, SchemaVersion)
	}
	if _, err := uuid.Parse(r.ID); err != nil {
		t.Errorf("ID %q is not a UUID: %v", r.ID, err)
	}
	want := time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)
	if !r.InstalledAt.Equal(want) || r.InstalledAt.Location() != time.UTC {
		t.Errorf("InstalledAt = %v, want %v in UTC", r.InstalledAt, want)
	}
	if s.New().ID == r.ID {
		t.Error("IDs should be unique")
	}
}

func TestSaveLoadRemove(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Load(); !errors.Is(err, ErrNoReceipt) {
		t.Fatalf("Load() on empty store = %v, want ErrNoReceipt", err)
	}

	r := s.New()
	r.Name = "snklog"
	r.Path = "/home/u/.local/bin/snklog"
	r.URL = "https://example.com/snklog"
	r.Size = 42
	r.SHA256 = "abc"
	r.Verification = "none"
	r.Mode = "0755"

	if err := s.Save(r); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(s.Path())
	if err != nil {
		t.Fatalf("receipt not written: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("receipt mode = %v, want 0600", info.Mode().Perm())
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !got.InstalledAt.Equal(r.InstalledAt) {
		t.Errorf("InstalledAt = %v, want %v", got.InstalledAt, r.InstalledAt)
	}
	gotCopy, wantCopy := *got, *r
	gotCopy.InstalledAt, wantCopy.InstalledAt = time.Time{}, time.Time{}
	if gotCopy != wantCopy {
		t.Errorf("Load() = %+v\nwant %+v", gotCopy, wantCopy)
	}

	if err := s.Remove(); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := s.Remove(); err != nil {
		t.Fatalf("second Remove() error = %v", err)
	}
	if _, err := s.Load(); !errors.Is(err, ErrNoReceipt) {
		t.Errorf("Load() after Remove = %v, want ErrNoReceipt", err)
	}
}

func TestSaveNil(t *testing.T) {
	if err := newTestStore(t).Save(nil); err == nil {
		t.Fatal("expected error for nil receipt")
	}
}

func TestLoadCorrupt(t *testing.T) {
	s := newTestStore(t)
	if err := os.MkdirAll(s.Dir(), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.Path(), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := s.Load()
	if err == nil || errors.Is(err, ErrNoReceipt) {
		t.Fatalf("Load() = %v, want parse error", err)
	}
}

func TestLoadFutureVersion(t *testing.T) {
	s := newTestStore(t)
	if err := os.MkdirAll(s.Dir(), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.Path(), []byte(`{"version": 99}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(); err == nil {
		t.Fatal("expected error for newer schema")
	}
}

func TestDefaultDir(t *testing.T) {
	t.Run("xdg", func(t *testing.T) {
		t.Setenv("XDG_STATE_HOME", "/xdg/state")
		got, err := DefaultDir()
		if err != nil {
			t.Fatal(err)
		}
		if got != "/xdg/state/snklog-install" {
			t.Errorf("DefaultDir() = %q", got)
		}
	})
	t.Run("home", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("XDG_STATE_HOME", "")
		t.Setenv("HOME", home)
		got, err := DefaultDir()
		if err != nil {
			t.Fatal(err)
		}
		if want := filepath.Join(home, ".local", "state", "snklog-install"); got != want {
			t.Errorf("DefaultDir() = %q, want %q", got, want)
		}
	})
}
