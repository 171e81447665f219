package core

import "errors"

// Domain errors - centralized error definitions
var (
	// Statistical preconditions
	ErrSampleTooSmall   = errors.New("sample is too small")
	ErrDegenerateSample = errors.New("sample has zero variance")

	// Input validation
	ErrInvalidPalette = errors.New("invalid palette definition")
	ErrInvalidLayout  = errors.New("invalid layout configuration")
)

// IsComputationError reports whether err is one of the per-group statistical
// preconditions rather than a programming fault.
func IsComputationError(err error) bool {
	return errors.Is(err, ErrSampleTooSmall) ||
		errors.Is(err, ErrDegenerateSample)
}
