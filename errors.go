package slimset

import "errors"

var (
	// ErrEmptyBuffer is returned by New when the initial buffer has no
	// capacity.
	ErrEmptyBuffer = errors.New("slimset: initial buffer is empty")

	// ErrReleased is returned by operations invoked after Release.
	ErrReleased = errors.New("slimset: set has been released")
)
