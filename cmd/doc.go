// Package cmd implements the command-line interface for padel-mcp.
//
// This package provides the following commands:
//   - serve: Start the MCP server over stdio or streamable HTTP
//   - availability: Run one court availability search and print the result
//   - clubs: Print the club directory
//   - generate-docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
//
// Commands that reach the upstream API share the --api-base-url,
// --default-timezone, --upstream-timeout and --upstream-retries flags. Each
// falls back to its PADEL_* environment variable when not set explicitly.
package cmd
