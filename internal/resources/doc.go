// Package resources provides MCP resources for read-only padel data.
//
// Resources are fetched by MCP clients as context rather than invoked as
// tools:
//   - padel://clubs: the club directory as JSON
//   - padel://config: query limits and the default timezone
package resources
