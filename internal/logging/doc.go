// Package logging provides structured logging utilities for the padel-mcp server.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - Consistent attribute naming across the codebase
//   - Logger adapter interface for flexibility
//   - A single constructor for the process-wide handler
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "padel.list_clubs")
//	logger.Info("listing clubs",
//	    logging.Status("success"))
//
// Attach request details to an entry:
//
//	logger.Debug("club filter dropped",
//	    logging.Club(name),
//	    logging.DateRange(start, end))
//
// # Transport Considerations
//
// The stdio transport uses stdout for protocol frames, so loggers built with
// NewLogger must be pointed at stderr or a file.
package logging
