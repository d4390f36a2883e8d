// Package availability implements the court availability query.
//
// A query takes a calendar date range and optional filters, resolves club
// names against the club directory, fetches the matching slots from the
// padel API and re-expresses each slot's start time in the local civil time
// of the club that owns it. Every outcome, including upstream failures, is
// reported as a ResultEnvelope; GetCourtAvailabilities never returns an error.
//
// The date window sent upstream always covers whole days in the handler's
// default location: from the start of the start date to the last instant of
// the end date. Queries whose end date lies more than MaxRangeDays after the
// current UTC date are rejected before any network call.
//
// Filters are advisory. Durations other than 60, 90 and 120, court types
// other than 0 and 1, and club names missing from the directory are dropped
// from the upstream query without failing the request.
package availability
