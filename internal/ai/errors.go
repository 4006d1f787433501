package ai

import "errors"

var (
	// ErrServiceUnavailable reports that the model service failed to produce
	// a usable reply: bad status, undecodable body or timeout.
	ErrServiceUnavailable = errors.New("ai service unavailable")

	// ErrServiceNotRunning reports that the model service could not be
	// reached at all. It wraps ErrServiceUnavailable.
	ErrServiceNotRunning = notRunningError{}

	// ErrMalformedResponse reports model output that matched the expected
	// bracket pattern but did not decode into the expected shape.
	ErrMalformedResponse = errors.New("ai returned malformed response")
)

type notRunningError struct{}

func (notRunningError) Error() string { return "ai service not running" }

func (notRunningError) Unwrap() error { return ErrServiceUnavailable }
