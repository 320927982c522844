package feature

import "errors"

var (
	// ErrInvalidConfig is returned when frame, hop, window or filter bank
	// parameters are rejected before any computation begins.
	ErrInvalidConfig = errors.New("feature: invalid configuration")

	// ErrEmptySamples indicates that no audio samples were supplied.
	ErrEmptySamples = errors.New("feature: empty samples")

	// ErrTooShort indicates that the input holds fewer samples than one frame.
	ErrTooShort = errors.New("feature: audio too short for a single frame")
)
