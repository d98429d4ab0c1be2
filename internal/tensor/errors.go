package tensor

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrShapeMismatch         = errors.New("shape mismatch")
	ErrInvalidShape          = errors.New("invalid shape")
	ErrInvalidBackwardTarget = errors.New("backward requires a 1x1 tensor")
	ErrElementCountMismatch  = errors.New("element count does not match shape")
	ErrNilElement            = errors.New("nil element")
)

// ShapeError reports incompatible operand shapes for a tensor operation.
// It matches ErrShapeMismatch with errors.Is.
type ShapeError struct {
	Op    string // Operation name (e.g., "add", "matmul")
	Left  Shape  // Shape of the receiver
	Right Shape  // Shape of the other operand
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s: %v vs %v", e.Op, ErrShapeMismatch, e.Left, e.Right)
}

// Unwrap returns ErrShapeMismatch.
func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}
