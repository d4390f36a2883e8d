// Package instrumentation provides OpenTelemetry instrumentation for the
// padel-mcp server.
//
// # Metrics
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, route, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//   - active_sessions: Up/down counter of connected MCP sessions
//
// Upstream API Metrics:
//   - upstream_api_operations_total: Counter of padel API calls by service, operation, status
//   - upstream_api_operation_duration_seconds: Histogram of padel API call durations
//   - upstream_api_retries_total: Counter of transparently retried requests by status class
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of MCP tool execution durations
//
// # Tracing
//
// Spans are created for MCP tool invocations (tool.<name>) and upstream calls
// (upstream.<service>.<operation>). Outbound HTTP requests additionally carry
// otelhttp client spans.
//
// # Configuration
//
// Instrumentation is configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: prometheus, otlp, stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout, none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: padel-mcp)
//   - AUDIT_LOGGING_ENABLED: Emit one audit line per tool call (default: true)
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	recorder := provider.Metrics()
//	recorder.RecordUpstreamOperation(ctx, instrumentation.ServicePadel,
//		instrumentation.OperationListClubs, instrumentation.StatusSuccess, time.Since(start))
package instrumentation
