package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultURL is the upstream location of the snklog program.
	DefaultURL = "https://raw.githubusercontent.com/vsbuffalo/snklog/main/main.py"
	// DefaultDir is the conventional user-local binary directory.
	DefaultDir = "~/.local/bin"
	// DefaultName is the installed program name.
	DefaultName = "snklog"
	// DefaultMode is rwxr-xr-x.
	DefaultMode os.FileMode = 0o755
	// DefaultTimeout bounds a single HTTP request.
	DefaultTimeout = 5 * time.Minute
)

// Environment variables read by ApplyEnv and DefaultPath.
const (
	EnvConfig = "SNKLOG_INSTALL_CONFIG"
	EnvURL    = "SNKLOG_INSTALL_URL"
	EnvDir    = "SNKLOG_INSTALL_DIR"
	EnvName   = "SNKLOG_INSTALL_NAME"
)

// Default returns the settings the installer uses with no config file.
func Default() *Config {
	return &Config{
		URL:     DefaultURL,
		Dir:     DefaultDir,
		Name:    DefaultName,
		Mode:    DefaultMode,
		Timeout: DefaultTimeout,
	}
}

// DefaultPath returns $SNKLOG_INSTALL_CONFIG, or install.lua under
// $XDG_CONFIG_HOME/snklog (falling back to ~/.config/snklog).
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return ExpandHome(p)
	}
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "snklog", "install.lua"), nil
}

// ApplyEnv overlays SNKLOG_INSTALL_URL, _DIR and _NAME onto cfg.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(EnvURL); v != "" {
		cfg.URL = v
	}
	if v := getenv(EnvDir); v != "" {
		cfg.Dir = v
	}
	if v := getenv(EnvName); v != "" {
		cfg.Name = v
	}
}
