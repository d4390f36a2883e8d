package instrumentation

import (
	"strconv"
	"strings"
)

// Label values are bounded so that user input never becomes a metric label.

// UnknownRoute is used for requests that did not match a router pattern.
const UnknownRoute = "unmatched"

// StatusClass collapses an HTTP status code into its class.
//
//	StatusClass(200) // "2xx"
//	StatusClass(503) // "5xx"
//	StatusClass(0)   // "network"
func StatusClass(code int) string {
	if code < 100 || code > 599 {
		return "network"
	}
	return strconv.Itoa(code/100) + "xx"
}

// RouteLabel returns pattern when the router matched one, UnknownRoute
// otherwise. Raw paths are never used.
func RouteLabel(pattern string) string {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return UnknownRoute
	}
	return pattern
}
