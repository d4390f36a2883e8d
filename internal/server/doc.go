// Package server provides the MCP server context, health probes and the
// HTTP servers of padel-mcp.
//
// # Key Components
//
// ServerContext carries the collaborators every tool invocation shares: the
// club directory, the availability handler, the metrics recorder and the
// audit logger. Its context is cancelled on Shutdown.
//
// HTTPServer mounts the MCP streamable HTTP handler on /mcp of a chi router
// together with the health endpoints:
//   - /healthz: liveness
//   - /readyz: readiness, failing while the server shuts down
//   - /healthz/detailed: version, uptime, default timezone and session count
//
// MetricsServer exposes Prometheus metrics on a dedicated port.
//
// SessionTracker follows MCP session registration through server hooks and
// keeps the active_sessions gauge current.
package server
