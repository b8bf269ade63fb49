package services

import "errors"

// Failure kinds surfaced to the handler layer. Handlers translate these
// to HTTP status codes; everything else is treated as a retryable server
// error. Mutations with ambiguous completion are never auto-retried here,
// so a duplicate notification cannot result from a transient failure.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrBlocked    = errors.New("blocked")
	ErrFollowSelf = errors.New("cannot follow self")
	ErrBlockSelf  = errors.New("cannot block self")
)
