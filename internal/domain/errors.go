package domain

import "errors"

// Validation failures are raised synchronously at the point of violation and
// must surface to the caller unchanged. Handlers map them to HTTP statuses.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrOutOfRange      = errors.New("out of range")
	ErrNotFound        = errors.New("not found")
	ErrNilReference    = errors.New("nil reference")
)
