package sim

import "errors"

var (
	// ErrInvalidConfig indicates a non-positive timestep or duration.
	ErrInvalidConfig = errors.New("sim: invalid config")

	// ErrDimensionMismatch indicates an initial state of the wrong length.
	ErrDimensionMismatch = errors.New("sim: dimension mismatch between state and system")
)
