package shell

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestDirInPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	bin := filepath.Join(home, ".local", "bin")
	sep := string(filepath.ListSeparator)

	tests := []struct {
		name    string
		dir     string
		pathEnv string
		want    bool
	}{
		{"present", bin, strings.Join([]string{"/usr/bin", bin}, sep), true},
		{"trailing slash in PATH", bin, "/usr/bin" + sep + bin + "/", true},
		{"tilde dir", "~/.local/bin", "/usr/bin" + sep + bin, true},
		{"tilde in PATH", bin, "~/.local/bin" + sep + "/usr/bin", true},
		{"absent", bin, "/usr/bin" + sep + "/bin", false},
		{"prefix only", bin, filepath.Join(bin, "sub"), false},
		{"empty PATH", bin, "", false},
		{"empty dir", "", "/usr/bin", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DirInPath(tt.dir, tt.pathEnv); got != tt.want {
				t.Errorf("DirInPath(%q, %q) = %v, want %v", tt.dir, tt.pathEnv, got, tt.want)
			}
		})
	}
}

func TestPathExportLine(t *testing.T) {
	tests := []struct {
		name    string
		shell   ShellType
		dir     string
		want    string
		wantErr bool
	}{
		{"bash", ShellBash, "/home/u/.local/bin", `export PATH="/home/u/.local/bin:$PATH"`, false},
		{"zsh", ShellZsh, "/home/u/.local/bin", `export PATH="/home/u/.local/bin:$PATH"`, false},
		{"fish", ShellFish, "/home/u/.local/bin", "fish_add_path /home/u/.local/bin", false},
		{"fish with space", ShellFish, "/home/u/my bin", "fish_add_path '/home/u/my bin'", false},
		{"unknown", ShellUnknown, "/x", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PathExportLine(tt.shell, tt.dir)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PathExportLine() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("PathExportLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPathExportLine_EscapesPOSIX(t *testing.T) {
	tests := []struct {
		dir  string
		want string
	}{
		{`/home/u/"bin"`, `export PATH="/home/u/\"bin\":$PATH"`},
		{`/home/u/$HOME`, `export PATH="/home/u/\$HOME:$PATH"`},
		{"/home/u/`id`", "export PATH=\"/home/u/\\`id\\`:$PATH\""},
		{`/home/u/a\b`, `export PATH="/home/u/a\\b:$PATH"`},
		{"/home/u/my bin", `export PATH="/home/u/my bin:$PATH"`},
	}

	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			got, err := PathExportLine(ShellBash, tt.dir)
			if err != nil {
				t.Fatalf("PathExportLine() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("PathExportLine(%q) = %q, want %q", tt.dir, got, tt.want)
			}
		})
	}
}
