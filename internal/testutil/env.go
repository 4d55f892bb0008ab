// Package testutil provides utilities for testing snklog-install in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Env describes an isolated home created by SetupTestEnv.
type Env struct {
	Home      string
	ConfigDir string
	StateDir  string
	// BinDir is the default install directory inside Home. It is not created.
	BinDir string
}

// SetupTestEnv points HOME and the XDG directories at a fresh temp dir so
// tests never touch the real ~/.local/bin, rc files or receipts.
//
// The cleanup function is automatically handled by t.TempDir() and
// t.Setenv(), so callers don't need to manually clean up.
func SetupTestEnv(t *testing.T) *Env {
	t.Helper()

	tmpDir := t.TempDir()
	env := &Env{
		Home:      filepath.Join(tmpDir, "home"),
		ConfigDir: filepath.Join(tmpDir, "home", ".config"),
		StateDir:  filepath.Join(tmpDir, "home", ".local", "state"),
	}
	env.BinDir = filepath.Join(env.Home, ".local", "bin")

	t.Setenv("HOME", env.Home)
	t.Setenv("XDG_CONFIG_HOME", env.ConfigDir)
	t.Setenv("XDG_STATE_HOME", env.StateDir)
	t.Setenv("SHELL", "/bin/bash")
	t.Setenv("PATH", "/usr/local/bin:/usr/bin:/bin")

	// Overrides from the developer's shell must not leak into tests.
	for _, key := range []string{
		"SNKLOG_INSTALL_CONFIG",
		"SNKLOG_INSTALL_URL",
		"SNKLOG_INSTALL_DIR",
		"SNKLOG_INSTALL_NAME",
		"SNKLOG_INSTALL_DEBUG",
	} {
		t.Setenv(key, "")
	}

	for _, dir := range []string{env.Home, env.ConfigDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}

	return env
}
