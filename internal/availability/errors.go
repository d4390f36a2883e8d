package availability

import (
	"context"
	"errors"
	"net"
	"net/url"

	"github.com/teemow/padel-mcp/internal/padel"
)

// Caller-facing error messages.
const (
	MsgInvalidDateFormat   = "Invalid date format. Please use YYYY-MM-DD."
	MsgRangeExceededFormat = "Requested date range exceeds the maximum allowed range of %s days."
	MsgClubLookupFailed    = "Failed to retrieve club information for timezone conversion"
	MsgNetworkError        = "Network error: Unable to connect to the court availability service. Please check your internet connection and try again."
	MsgTimeout             = "Request timed out. The server took too long to respond. Please try again with a smaller date range."
	MsgMalformedResponse   = "Failed to parse the server response. The data format may be incorrect."
	MsgEmptyResponse       = "Failed to parse response from court-availabilities endpoint"
	MsgUnexpected          = "An unexpected error occurred while fetching court availabilities. Please try again later."
)

// Failure kinds for logging and metrics.
const (
	KindTimeout    = "timeout"
	KindEmpty      = "empty_response"
	KindMalformed  = "malformed_response"
	KindNetwork    = "network"
	KindUnexpected = "unexpected"
)

// classify maps an availability fetch error to its failure kind and message.
// The checks run in order; a timeout wrapped in a url.Error is a timeout,
// not a network failure.
func classify(err error) (kind, msg string) {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.As(err, &netErr) && netErr.Timeout():
		return KindTimeout, MsgTimeout
	case errors.Is(err, padel.ErrEmptyResponse):
		return KindEmpty, MsgEmptyResponse
	case errors.Is(err, padel.ErrMalformedResponse):
		return KindMalformed, MsgMalformedResponse
	case isNetworkError(err):
		return KindNetwork, MsgNetworkError
	default:
		return KindUnexpected, MsgUnexpected
	}
}

func isNetworkError(err error) bool {
	var (
		statusErr *padel.StatusError
		urlErr    *url.Error
		opErr     *net.OpError
		netErr    net.Error
	)
	return errors.As(err, &statusErr) ||
		errors.As(err, &urlErr) ||
		errors.As(err, &opErr) ||
		errors.As(err, &netErr)
}
