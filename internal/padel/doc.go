// Package padel provides a client for the court-booking aggregation API.
//
// The API exposes two read-only endpoints:
//   - GET /api/padel-clubs: the club directory (id, name, provider, timezone)
//   - GET /api/court-availabilities: bookable slots in an instant window,
//     optionally filtered by duration, club id and court type
//
// Requests are sent through an OpenTelemetry-instrumented transport, and GET
// requests that fail with a connection error or a 502, 503 or 504 response are
// retried with exponential backoff before the caller sees the result. Callers
// issue exactly one call per operation; retries are not visible to them.
//
// Example usage:
//
//	client, err := padel.NewClient(padel.Config{BaseURL: "https://api.example.com"})
//	if err != nil {
//		return err
//	}
//	clubs, err := client.ListClubs(ctx)
//
// Errors returned by the client are *APIError values wrapping one of:
//   - *StatusError for non-2xx responses
//   - ErrMalformedResponse when the body is not valid JSON for the endpoint
//   - ErrEmptyResponse when the body is the JSON literal null
//   - the transport error (timeouts, cancellation, connection failures)
package padel
