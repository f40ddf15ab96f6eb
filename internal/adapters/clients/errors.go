// Package clients provides the instrumented HTTP client used to reach upstream
// quote providers.
package clients

import "errors"

// Transport-level failures. The acl package translates them into domain errors.
var (
	// ErrCircuitOpen is returned without sending a request while the breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last attempt's error once retries run out.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)
