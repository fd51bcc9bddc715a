package integration

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/namevetter/namevetter/internal/cmd"
	"github.com/namevetter/namevetter/internal/config"
	"github.com/namevetter/namevetter/internal/observability"
	"github.com/namevetter/namevetter/internal/server"
	"github.com/namevetter/namevetter/internal/server/handlers"
)

// cleanupMetrics tears down global telemetry state so each test starts clean.
// This matters in sandboxes where lingering exporters can block future binds.
func cleanupMetrics(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		if observability.PrometheusExporter != nil {
			_ = observability.PrometheusExporter.Stop()
			observability.PrometheusExporter = nil
		}
		observability.TelemetrySystem = nil
	})
}

// isPermissionError normalizes OS-specific permission errors (macOS/Linux/BSD)
// so we can gracefully skip when loopback sockets are blocked.
func isPermissionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, os.ErrPermission) || errors.Is(err, syscall.EACCES) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, fragment := range []string{"permission denied", "operation not permitted", "not permitted"} {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

// initMetricsOrSkip attempts to start the metrics exporter; if the environment
// forbids network binds we skip instead of failing the entire suite.
func initMetricsOrSkip(t *testing.T) {
	t.Helper()
	if err := observability.InitMetrics("test", 0, "test"); err != nil {
		if isPermissionError(err) {
			t.Skipf("skipping metrics tests due to sandbox permissions: %v", err)
		}
		require.NoError(t, err)
	}
	cleanupMetrics(t)
}

func initLoggers() {
	observability.InitCLILogger("test", false)
	observability.InitServerLogger(observability.ServerLoggerOptions{Service: "test", Level: "info", Environment: "test"})
}

// listenLoopback binds IPv4 loopback explicitly (avoiding IPv6-only
// defaults) and skips when the sandbox refuses to open sockets.
func listenLoopback(t *testing.T) net.Listener {
	t.Helper()
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		if isPermissionError(err) {
			t.Skipf("skipping server setup: %v", err)
		}
		require.NoError(t, err)
	}
	return listener
}

func startServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	ts := &httptest.Server{
		Listener: listenLoopback(t),
		Config:   &http.Server{Handler: handler},
	}
	ts.Start()
	t.Cleanup(ts.Close)
	return ts
}

// upstreams fakes the registry and the profile pages. Domains and handles
// listed in taken answer 200; everything else is 404.
type upstreams struct {
	RDAP     *httptest.Server
	Profiles *httptest.Server
}

func newUpstreams(t *testing.T, taken ...string) *upstreams {
	t.Helper()
	isTaken := func(name string) bool {
		for _, candidate := range taken {
			if candidate == name {
				return true
			}
		}
		return false
	}

	rdap := startServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		domain := strings.TrimPrefix(r.URL.Path, "/domain/")
		if !isTaken(domain) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/rdap+json")
		_, _ = fmt.Fprintf(w, `{"objectClassName": "domain", "ldhName": %q}`, domain)
	}))

	profiles := startServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isTaken(strings.Trim(r.URL.Path, "/")) {
			_, _ = w.Write([]byte("<html><title>profile</title></html>"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))

	return &upstreams{RDAP: rdap, Profiles: profiles}
}

// newStack builds the real probe stack against the fake upstreams, with the
// WHOIS, DNS and similar-domain steps switched off.
func newStack(t *testing.T, up *upstreams) *cmd.Stack {
	t.Helper()

	platformsFile := filepath.Join(t.TempDir(), "platforms.yaml")
	doc := fmt.Sprintf(`version: 1
platforms:
  - name: Example
    aliases: [ex, "Example (Old)"]
    url_template: "%s/{handle}"
`, up.Profiles.URL)
	require.NoError(t, os.WriteFile(platformsFile, []byte(doc), 0o600))

	v := viper.New()
	config.SetDefaults(v)
	v.Set("domain.rdap.base_url", up.RDAP.URL)
	v.Set("domain.whois.enabled", false)
	v.Set("domain.dns.enabled", false)
	v.Set("similar.enabled", false)
	v.Set("social.platforms_file", platformsFile)
	v.Set("check.extensions", []string{".com", ".io"})

	cfg, err := config.Load(v)
	require.NoError(t, err)

	stack, err := cmd.BuildStack(cfg)
	require.NoError(t, err)
	return stack
}

// newTestServer serves the full router for stack. setup may add extra
// routes before the server starts.
func newTestServer(t *testing.T, stack *cmd.Stack, setup func(*chi.Mux)) (*httptest.Server, *http.Client) {
	t.Helper()

	var api *handlers.API
	if stack != nil {
		api = handlers.NewAPI(stack.Orchestrator, stack.Platforms)
	}
	srv := server.New(server.Options{Host: "127.0.0.1", Version: "test"}, api)
	if stack != nil {
		srv.RegisterDefaultChecks(stack.Platforms, observability.TelemetrySystem != nil)
	}
	if setup != nil {
		if mux, ok := srv.Handler().(*chi.Mux); ok {
			setup(mux)
		}
	}

	ts := startServer(t, srv.Handler())
	return ts, ts.Client()
}
