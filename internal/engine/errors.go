package engine

import "errors"

// Domain errors for body construction and tree building.
var (
	// ErrNonPositiveMass indicates a body created with mass <= 0.
	ErrNonPositiveMass = errors.New("engine: body mass must be positive")

	// ErrNegativeRadius indicates a body created with a negative radius.
	ErrNegativeRadius = errors.New("engine: body radius must be non-negative")

	// ErrNonFinite indicates a NaN or Inf position or velocity component.
	ErrNonFinite = errors.New("engine: non-finite body state")

	// ErrEmptyID indicates a body created without an identifier.
	ErrEmptyID = errors.New("engine: body id must not be empty")
)
