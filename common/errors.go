package common

import "errors"

// Sentinel errors shared by every package in the animation core. Call sites
// wrap these with fmt.Errorf("...: %w", ...) so callers can classify failures
// with errors.Is while still getting a descriptive message.
var (
	// ErrInvalidArgument indicates a null, negative, or out-of-range input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound indicates an unknown channel, layer, or marker identifier.
	ErrNotFound = errors.New("not found")

	// ErrTypeMismatch indicates a requested value type that does not match the stored type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrDuplicateKey indicates two channels, layers, markers, or keyframes sharing an identifier or position.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrCapacityExceeded indicates a deformer buffer over its maximum slot count.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrReadOnly indicates a structural mutation attempted on a read-only skeleton view.
	ErrReadOnly = errors.New("read-only")
)
