package rotation

import (
	"errors"
	"fmt"
)

// Domain errors for construction and composition.
var (
	// ErrShape indicates an input whose length or shape does not match the
	// fixed dimensionality of the target type.
	ErrShape = errors.New("rotation: shape mismatch")

	// ErrType indicates an operand of a kind the operation does not accept.
	ErrType = errors.New("rotation: unsupported operand type")

	// ErrOperationNotSupported is returned by UnitQuaternion.Mul.
	ErrOperationNotSupported = errors.New("rotation: operation not supported")
)

// ShapeError wraps ErrShape with the offending input.
type ShapeError struct {
	Op   string
	Want string
	Got  string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s: want %s, got %s", ErrShape, e.Op, e.Want, e.Got)
}

func (e *ShapeError) Unwrap() error {
	return ErrShape
}

func lengthError(op string, want, got int) error {
	return &ShapeError{
		Op:   op,
		Want: fmt.Sprintf("length %d", want),
		Got:  fmt.Sprintf("length %d", got),
	}
}

func dimsError(op string, rows, cols int) error {
	return &ShapeError{Op: op, Want: "3x3", Got: fmt.Sprintf("%dx%d", rows, cols)}
}
