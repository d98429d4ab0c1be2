package tensor

import "fmt"

// Shape is the (rows, cols) extent of a 2D tensor.
type Shape struct {
	Rows int
	Cols int
}

// NumElements returns Rows*Cols.
func (s Shape) NumElements() int {
	return s.Rows * s.Cols
}

// Validate checks that both dimensions are positive.
func (s Shape) Validate() error {
	if s.Rows <= 0 || s.Cols <= 0 {
		return fmt.Errorf("%w: %v (dimensions must be > 0)", ErrInvalidShape, s)
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	return s == other
}

// IsScalar reports whether the shape is 1×1.
func (s Shape) IsScalar() bool {
	return s.Rows == 1 && s.Cols == 1
}

// String formats the shape as "RxC".
func (s Shape) String() string {
	return fmt.Sprintf("%dx%d", s.Rows, s.Cols)
}
