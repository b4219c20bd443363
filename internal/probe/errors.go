package probe

import "errors"

// Sentinel kinds for probe errors.
var (
	ErrUnhealthy        = errors.New("service health check failed")
	ErrUnexpectedStatus = errors.New("unexpected analysis outcome")
	ErrTransport        = errors.New("request failed")
)
