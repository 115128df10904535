package frame

import "errors"

// Sentinel errors for frame and chain construction.
// These errors enable reliable error classification using errors.Is().
var (
	// ErrInvalidConfig indicates a contract violation detected before any
	// line is rendered: unknown format, bad size, mismatched frames.
	ErrInvalidConfig = errors.New("invalid frame configuration")

	// ErrNoKernel indicates that no kernel exists for the requested tap
	// count or format combination.
	ErrNoKernel = errors.New("no kernel for requested conversion")

	// ErrNotVirtual indicates a cache operation on a real frame.
	ErrNotVirtual = errors.New("frame is not virtual")
)
