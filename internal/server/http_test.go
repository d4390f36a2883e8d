package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/teemow/padel-mcp/internal/instrumentation"
)

func newTestHTTPServer(t *testing.T, metrics *instrumentation.Metrics, health *HealthChecker) *HTTPServer {
	t.Helper()
	srv, err := NewHTTPServer(HTTPServerConfig{
		Addr:      "127.0.0.1:0",
		MCPServer: mcpserver.NewMCPServer("test", "1.0.0", mcpserver.WithToolCapabilities(true)),
		Health:    health,
		Metrics:   metrics,
	})
	if err != nil {
		t.Fatalf("NewHTTPServer() error = %v", err)
	}
	return srv
}

func requestCount(t *testing.T, reader *sdkmetric.ManualReader, route, status string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	want := attribute.NewSet(
		attribute.String("method", http.MethodGet),
		attribute.String("route", route),
		attribute.String("status", status),
	)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "http_requests_total" {
				continue
			}
			sum := m.Data.(metricdata.Sum[int64])
			var total int64
			for _, dp := range sum.DataPoints {
				if dp.Attributes.Equals(&want) {
					total += dp.Value
				}
			}
			return total
		}
	}
	return 0
}

func TestNewHTTPServer_RequiresMCPServer(t *testing.T) {
	if _, err := NewHTTPServer(HTTPServerConfig{}); err == nil {
		t.Fatal("NewHTTPServer() expected error without mcp server")
	}
}

func TestNewHTTPServer_DefaultAddr(t *testing.T) {
	srv, err := NewHTTPServer(HTTPServerConfig{MCPServer: mcpserver.NewMCPServer("test", "1.0.0")})
	if err != nil {
		t.Fatalf("NewHTTPServer() error = %v", err)
	}
	if srv.Addr() != DefaultHTTPAddr {
		t.Errorf("Addr() = %q, want %q", srv.Addr(), DefaultHTTPAddr)
	}
}

func TestHTTPServer_RecordsRouteMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	metrics, err := instrumentation.NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	srv := newTestHTTPServer(t, metrics, NewHealthChecker(nil, nil, ""))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	for _, path := range []string{"/healthz", "/healthz", "/does-not-exist"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
	}

	if got := requestCount(t, reader, "/healthz", "200"); got != 2 {
		t.Errorf("http_requests_total{/healthz,200} = %d, want 2", got)
	}
	if got := requestCount(t, reader, instrumentation.UnknownRoute, "404"); got != 1 {
		t.Errorf("http_requests_total{unmatched,404} = %d, want 1", got)
	}
}

func TestHTTPServer_MountsMCPEndpoint(t *testing.T) {
	srv := newTestHTTPServer(t, nil, nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1.0.0"}}}`
	req, err := http.NewRequest(http.MethodPost, ts.URL+DefaultMCPEndpoint, strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", DefaultMCPEndpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("initialize status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if resp.Header.Get("Mcp-Session-Id") == "" {
		t.Error("initialize response carries no session id")
	}
}

func TestHTTPServer_StartAndShutdown(t *testing.T) {
	srv := newTestHTTPServer(t, nil, NewHealthChecker(nil, nil, ""))

	ready := make(chan struct{})
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.StartWithReadySignal(ready)
	}()

	select {
	case <-ready:
	case err := <-serverErr:
		t.Fatalf("StartWithReadySignal() error = %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not become ready")
	}

	resp, err := http.Get("http://" + srv.Addr() + "/readyz")
	if err != nil {
		t.Fatalf("GET /readyz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /readyz status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
	if err := <-serverErr; err != nil {
		t.Errorf("server error after shutdown: %v", err)
	}
}

func TestHTTPServer_ShutdownWithoutStart(t *testing.T) {
	srv := newTestHTTPServer(t, nil, nil)
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() without Start() error = %v", err)
	}
}
