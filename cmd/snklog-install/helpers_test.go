package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/snklog/snklog-install/internal/platform"
	"github.com/snklog/snklog-install/internal/testutil"
)

const testArtifact = "#!/usr/bin/env python3\nprint('snklog')\n"

var testPlatform = &platform.Info{OS: "linux", Arch: "amd64", ArchRaw: "x86_64", Platform: "ubuntu", Family: "debian", Version: "24.04"}

type cliTestEnv struct {
	*testutil.Env
	server *httptest.Server
	hits   *atomic.Int32
}

// setupCLITestEnv isolates HOME and serves testArtifact at /snklog.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	env := &cliTestEnv{Env: testutil.SetupTestEnv(t), hits: &atomic.Int32{}}

	mux := http.NewServeMux()
	mux.HandleFunc("/snklog", func(w http.ResponseWriter, r *http.Request) {
		env.hits.Add(1)
		_, _ = w.Write([]byte(testArtifact))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		env.hits.Add(1)
		http.Error(w, "404: Not Found", http.StatusNotFound)
	})
	env.server = httptest.NewServer(mux)
	t.Cleanup(env.server.Close)

	t.Setenv("SNKLOG_INSTALL_URL", env.server.URL+"/snklog")
	return env
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCommand(platform.StaticDetector{Info: testPlatform})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}
