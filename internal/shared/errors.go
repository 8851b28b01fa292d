package shared

import "errors"

// Sentinel errors shared across the order-intake domain. Services wrap these
// with fmt.Errorf("...: %w", err); handlers map them to envelope statuses.
var (
	// ErrNotFound indicates the referenced row is absent.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrPersistence indicates the store rejected a write.
	ErrPersistence = errors.New("persistence failed")
	// ErrAllocation indicates a reference token could not be minted.
	ErrAllocation = errors.New("reference allocation failed")
	// ErrConflict indicates a uniqueness guard fired under concurrency.
	ErrConflict = errors.New("conflicting update")
	// ErrDuplicateTracking indicates the tracking number is already taken.
	ErrDuplicateTracking = errors.New("tracking number already in use")
	// ErrMissingRider indicates accept was called without a rider on file.
	ErrMissingRider = errors.New("rider assignment required")
)
