package pipeline

import "errors"

var (
	// ErrInvalidInput marks failures caused by the caller's input or
	// options rather than the environment.
	ErrInvalidInput = errors.New("invalid input")

	// ErrOperationFailed marks failures of an external step (probing,
	// detection, rendering, publishing).
	ErrOperationFailed = errors.New("operation failed")
)
