package app

import "errors"

// Sentinel kinds for engine invocation errors.
var (
	ErrNoStore     = errors.New("no league store configured")
	ErrStoreFailed = errors.New("league store unavailable")
)
