package shell

import (
	"context"
	"testing"
)

func TestDetectShell(t *testing.T) {
	tests := []struct {
		name           string
		shellEnv       string
		parent         string
		wantShell      ShellType
		wantMethod     string
		wantConfidence string
	}{
		{
			name:           "Bash from SHELL",
			shellEnv:       "/bin/bash",
			wantShell:      ShellBash,
			wantMethod:     "$SHELL environment variable",
			wantConfidence: "high",
		},
		{
			name:           "Zsh from SHELL",
			shellEnv:       "/usr/bin/zsh",
			parent:         "bash",
			wantShell:      ShellZsh,
			wantMethod:     "$SHELL environment variable",
			wantConfidence: "high",
		},
		{
			name:           "Fish from SHELL",
			shellEnv:       "/usr/local/bin/fish",
			wantShell:      ShellFish,
			wantMethod:     "$SHELL environment variable",
			wantConfidence: "high",
		},
		{
			name:           "Unknown SHELL falls back to parent",
			shellEnv:       "/bin/ksh",
			parent:         "zsh",
			wantShell:      ShellZsh,
			wantMethod:     "parent process",
			wantConfidence: "medium",
		},
		{
			name:           "Login shell parent",
			parent:         "-bash",
			wantShell:      ShellBash,
			wantMethod:     "parent process",
			wantConfidence: "medium",
		},
		{
			name:           "Nothing detected",
			shellEnv:       "/bin/ksh",
			parent:         "sshd",
			wantShell:      ShellUnknown,
			wantMethod:     "detection failed",
			wantConfidence: "none",
		},
		{
			name:           "Empty SHELL variable",
			wantShell:      ShellUnknown,
			wantMethod:     "detection failed",
			wantConfidence: "none",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parent := func(context.Context) string { return tt.parent }
			result, err := detectShell(context.Background(), tt.shellEnv, parent)
			if err != nil {
				t.Fatalf("detectShell() error = %v", err)
			}

			if result.Shell != tt.wantShell {
				t.Errorf("detectShell() shell = %v, want %v", result.Shell, tt.wantShell)
			}
			if result.Method != tt.wantMethod {
				t.Errorf("detectShell() method = %v, want %v", result.Method, tt.wantMethod)
			}
			if result.Confidence != tt.wantConfidence {
				t.Errorf("detectShell() confidence = %v, want %v", result.Confidence, tt.wantConfidence)
			}
		})
	}
}

func TestDetectShell_FromEnvironment(t *testing.T) {
	t.Setenv("SHELL", "/bin/zsh")

	result, err := DetectShell()
	if err != nil {
		t.Fatalf("DetectShell() error = %v", err)
	}
	if result.Shell != ShellZsh {
		t.Errorf("DetectShell() shell = %v, want zsh", result.Shell)
	}
	if result.ShellPath != "/bin/zsh" {
		t.Errorf("DetectShell() path = %q, want /bin/zsh", result.ShellPath)
	}
}

func TestParseShellFromPath(t *testing.T) {
	tests := []struct {
		path string
		want ShellType
	}{
		{"/bin/bash", ShellBash},
		{"/usr/bin/zsh", ShellZsh},
		{"/usr/local/bin/fish", ShellFish},
		{"/BIN/BASH", ShellBash},
		{"-zsh", ShellZsh},
		{"/bin/sh", ShellUnknown},
		{"", ShellUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := parseShellFromPath(tt.path); got != tt.want {
				t.Errorf("parseShellFromPath(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestValidateShell(t *testing.T) {
	for _, s := range GetSupportedShells() {
		if err := ValidateShell(s); err != nil {
			t.Errorf("ValidateShell(%s) error = %v", s, err)
		}
	}

	err := ValidateShell(ShellUnknown)
	if err == nil {
		t.Fatal("ValidateShell(unknown) expected error")
	}
	if _, ok := err.(*UnsupportedShellError); !ok {
		t.Errorf("ValidateShell(unknown) error type = %T, want *UnsupportedShellError", err)
	}
}
