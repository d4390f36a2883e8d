package instrumentation

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}
	return m, reader
}

func collectSum(t *testing.T, reader *sdkmetric.ManualReader, name string, attrs ...attribute.KeyValue) int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}

	want := attribute.NewSet(attrs...)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("metric %s is not an int64 sum", name)
			}
			var total int64
			for _, dp := range sum.DataPoints {
				if len(attrs) == 0 || dp.Attributes.Equals(&want) {
					total += dp.Value
				}
			}
			return total
		}
	}
	return 0
}

func TestMetrics_RecordUpstreamOperation(t *testing.T) {
	ctx := context.Background()
	m, reader := newTestMetrics(t)

	m.RecordUpstreamOperation(ctx, ServicePadel, OperationListClubs, StatusSuccess, 20*time.Millisecond)
	m.RecordUpstreamOperation(ctx, ServicePadel, OperationListClubs, StatusSuccess, 30*time.Millisecond)
	m.RecordUpstreamOperation(ctx, ServicePadel, OperationListAvailabilities, StatusError, time.Second)

	got := collectSum(t, reader, "upstream_api_operations_total",
		attribute.String(attrService, ServicePadel),
		attribute.String(attrOperation, OperationListClubs),
		attribute.String(attrStatus, StatusSuccess),
	)
	if got != 2 {
		t.Errorf("expected 2 successful list_clubs operations, got %d", got)
	}

	got = collectSum(t, reader, "upstream_api_operations_total",
		attribute.String(attrService, ServicePadel),
		attribute.String(attrOperation, OperationListAvailabilities),
		attribute.String(attrStatus, StatusError),
	)
	if got != 1 {
		t.Errorf("expected 1 failed availability operation, got %d", got)
	}
}

func TestMetrics_RecordToolInvocation(t *testing.T) {
	ctx := context.Background()
	m, reader := newTestMetrics(t)

	m.RecordToolInvocation(ctx, "padel_get_court_availabilities", StatusSuccess, 100*time.Millisecond)
	m.RecordToolInvocation(ctx, "padel_get_court_availabilities", StatusError, 50*time.Millisecond)

	if got := collectSum(t, reader, "mcp_tool_invocations_total"); got != 2 {
		t.Errorf("expected 2 invocations, got %d", got)
	}
}

func TestMetrics_RecordHTTPRequest(t *testing.T) {
	ctx := context.Background()
	m, reader := newTestMetrics(t)

	m.RecordHTTPRequest(ctx, "POST", "/mcp", 200, 10*time.Millisecond)
	m.RecordHTTPRequest(ctx, "GET", "/healthz", 200, time.Millisecond)

	got := collectSum(t, reader, "http_requests_total",
		attribute.String(attrMethod, "POST"),
		attribute.String(attrRoute, "/mcp"),
		attribute.String(attrStatus, "200"),
	)
	if got != 1 {
		t.Errorf("expected 1 POST /mcp request, got %d", got)
	}
}

func TestMetrics_RecordUpstreamRetry(t *testing.T) {
	ctx := context.Background()
	m, reader := newTestMetrics(t)

	m.RecordUpstreamRetry(ctx, ServicePadel, StatusClass(503))
	m.RecordUpstreamRetry(ctx, ServicePadel, StatusClass(0))

	got := collectSum(t, reader, "upstream_api_retries_total",
		attribute.String(attrService, ServicePadel),
		attribute.String(attrCode, "5xx"),
	)
	if got != 1 {
		t.Errorf("expected 1 5xx retry, got %d", got)
	}
}

func TestMetrics_ActiveSessions(t *testing.T) {
	ctx := context.Background()
	m, reader := newTestMetrics(t)

	m.IncrementActiveSessions(ctx)
	m.IncrementActiveSessions(ctx)
	m.DecrementActiveSessions(ctx)

	if got := collectSum(t, reader, "active_sessions"); got != 1 {
		t.Errorf("expected 1 active session, got %d", got)
	}
}

func TestMetrics_ZeroValueIsNoop(t *testing.T) {
	ctx := context.Background()

	var nilMetrics *Metrics
	nilMetrics.RecordToolInvocation(ctx, "tool", StatusSuccess, time.Second)
	nilMetrics.IncrementActiveSessions(ctx)

	m := &Metrics{}
	m.RecordHTTPRequest(ctx, "GET", "/", 200, time.Second)
	m.RecordUpstreamOperation(ctx, ServicePadel, OperationListClubs, StatusSuccess, time.Second)
	m.RecordUpstreamRetry(ctx, ServicePadel, "5xx")
	m.DecrementActiveSessions(ctx)
}
