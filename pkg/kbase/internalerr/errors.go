package internalerr

import "errors"

// Sentinel errors for the plumbing around the knowledge base.
// The core itself never fails; readers, config and stores do.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInvalidConfig    = errors.New("invalid configuration")
)
