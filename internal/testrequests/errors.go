package testrequests

import "errors"

// Sentinel errors returned by Run.
var (
	ErrInvalidConfig = errors.New("invalid test configuration")
	ErrUnhealthy     = errors.New("service is not healthy")
	ErrMismatch      = errors.New("responses did not match the local calculator")
	ErrTransport     = errors.New("requests failed in transport")
)
