// Package padel_tools provides the MCP tools for finding padel courts.
//
// Available tools:
//   - padel_get_court_availabilities: bookable slots for a date range, with
//     optional duration, club and court type filters. Times are returned as
//     local wall-clock time of each club.
//   - padel_list_clubs: the club directory, optionally filtered by name.
//
// Both tools answer with a compact JSON envelope carrying success and error
// fields. Failures are reported inside the envelope, never as tool errors.
package padel_tools
