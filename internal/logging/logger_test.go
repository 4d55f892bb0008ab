package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{name: "quiet", verbose: false, wantDebug: false},
		{name: "verbose", verbose: true, wantDebug: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvDebug, "")
			var buf bytes.Buffer
			l := New(Options{Verbose: tt.verbose, Writer: &buf})

			l.Debug("debug line", "k", "v")
			l.Warn("warn line", "k", "v")

			out := buf.String()
			if got := strings.Contains(out, "debug line"); got != tt.wantDebug {
				t.Errorf("debug emitted = %v, want %v\n%s", got, tt.wantDebug, out)
			}
			if !strings.Contains(out, "warn line") {
				t.Errorf("warn line missing:\n%s", out)
			}
			if strings.Contains(out, "time=") {
				t.Errorf("timestamp should be stripped:\n%s", out)
			}
		})
	}
}

func TestNewDebugFromEnv(t *testing.T) {
	t.Setenv(EnvDebug, "1")
	var buf bytes.Buffer
	New(Options{Writer: &buf}).Debug("from env")

	if !strings.Contains(buf.String(), "from env") {
		t.Errorf("expected debug output with %s set, got %q", EnvDebug, buf.String())
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("OrNop(nil) returned nil")
	}
	// Must not panic.
	OrNop(nil).Error("ignored", "k", 1)
}
