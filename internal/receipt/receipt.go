// Package receipt records what the installer last put on disk and serializes
// concurrent installer runs.
//
// A receipt is a small JSON document under the user's state directory
// ($XDG_STATE_HOME/snklog-install, default ~/.local/state/snklog-install).
// It is rewritten atomically after every successful install and is the basis
// for the status and uninstall commands.
package receipt

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"
	"github.com/google/uuid"
)

const (
	// SchemaVersion is written into every receipt.
	SchemaVersion = 1

	receiptFile = "receipt.json"
	lockFile    = "install.lock"
)

// ErrNoReceipt is returned by Load when nothing has been installed yet.
var ErrNoReceipt = errors.New("no install receipt")

// Receipt describes one successful install.
type Receipt struct {
	Version      int       `json:"version"`
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Path         string    `json:"path"`
	URL          string    `json:"url"`
	Size         int64     `json:"size"`
	SHA256       string    `json:"sha256"`
	Verification string    `json:"verification"`
	Mode         string    `json:"mode"`
	Platform     string    `json:"platform,omitempty"`
	InstalledAt  time.Time `json:"installed_at"`
}

// Clock provides time operations so tests can pin InstalledAt.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system time.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time { return time.Now() }

// FixedClock returns the same instant every time.
type FixedClock struct {
	Time time.Time
}

// Now returns the fixed time.
func (c FixedClock) Now() time.Time { return c.Time }

// Store reads and writes receipts inside one state directory.
type Store struct {
	dir   string
	clock Clock
}

// NewStore creates a store rooted at dir. A nil clock uses RealClock.
func NewStore(dir string, clock Clock) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("state directory is required")
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &Store{dir: dir, clock: clock}, nil
}

// DefaultDir returns $XDG_STATE_HOME/snklog-install, falling back to
// ~/.local/state/snklog-install.
func DefaultDir() (string, error) {
	base := os.Getenv("XDG_STATE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		base = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(base, "snklog-install"), nil
}

// Dir returns the state directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the receipt file location.
func (s *Store) Path() string { return filepath.Join(s.dir, receiptFile) }

// New stamps a receipt with a fresh ID, the schema version and the store's
// clock. The caller fills in the artifact fields.
func (s *Store) New() *Receipt {
	return &Receipt{
		Version:     SchemaVersion,
		ID:          uuid.New().String(),
		InstalledAt: s.clock.Now().UTC(),
	}
}

// Save writes r atomically.
func (s *Store) Save(r *Receipt) error {
	if r == nil {
		return fmt.Errorf("receipt is nil")
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal receipt: %w", err)
	}
	data = append(data, '\n')

	if err := renameio.WriteFile(s.Path(), data, 0o600); err != nil {
		return fmt.Errorf("write receipt: %w", err)
	}
	return nil
}

// Load reads the current receipt. It returns ErrNoReceipt if none exists.
func (s *Store) Load() (*Receipt, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoReceipt
		}
		return nil, fmt.Errorf("read receipt: %w", err)
	}

	var r Receipt
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse receipt %s: %w", s.Path(), err)
	}
	if r.Version > SchemaVersion {
		return nil, fmt.Errorf("receipt schema version %d is newer than supported %d", r.Version, SchemaVersion)
	}
	return &r, nil
}

// Remove deletes the receipt. A missing receipt is not an error.
func (s *Store) Remove() error {
	if err := os.Remove(s.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove receipt: %w", err)
	}
	return nil
}
