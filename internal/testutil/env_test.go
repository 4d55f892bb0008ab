package testutil_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/snklog/snklog-install/internal/testutil"
)

func TestSetupTestEnv(t *testing.T) {
	env := testutil.SetupTestEnv(t)

	if got := os.Getenv("HOME"); got != env.Home {
		t.Errorf("HOME = %q, want %q", got, env.Home)
	}
	if got := os.Getenv("XDG_CONFIG_HOME"); got != env.ConfigDir {
		t.Errorf("XDG_CONFIG_HOME = %q, want %q", got, env.ConfigDir)
	}
	if got := os.Getenv("XDG_STATE_HOME"); got != env.StateDir {
		t.Errorf("XDG_STATE_HOME = %q, want %q", got, env.StateDir)
	}
	if got := os.Getenv("SNKLOG_INSTALL_URL"); got != "" {
		t.Errorf("SNKLOG_INSTALL_URL = %q, want empty", got)
	}

	for _, dir := range []string{env.Home, env.ConfigDir} {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			t.Errorf("directory %s does not exist", dir)
		}
	}

	if _, err := os.Stat(env.BinDir); !os.IsNotExist(err) {
		t.Errorf("bin dir %s should not exist yet", env.BinDir)
	}
	if !strings.HasPrefix(env.BinDir, env.Home) || !filepath.IsAbs(env.BinDir) {
		t.Errorf("bin dir %s not under home %s", env.BinDir, env.Home)
	}
	if strings.Contains(os.Getenv("PATH"), env.BinDir) {
		t.Error("bin dir should not be on PATH")
	}
}

func TestSetupTestEnv_Isolation(t *testing.T) {
	env1 := testutil.SetupTestEnv(t)

	t.Run("subtest", func(t *testing.T) {
		env2 := testutil.SetupTestEnv(t)
		if env1.Home == env2.Home {
			t.Error("expected different temp directories for different test contexts")
		}
	})
}
