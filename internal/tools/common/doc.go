// Package common provides shared utilities for MCP tool implementations:
// the instrumentation wrapper every tool handler runs inside and helpers
// that coerce loosely typed tool arguments.
package common
