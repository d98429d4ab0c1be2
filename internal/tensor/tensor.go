package tensor

import (
	"fmt"
	"iter"

	"github.com/born-ml/grad2d/internal/autodiff"
)

// Tensor2D is a dense row-major grid of scalars.
//
// A Tensor2D has no gradient of its own: every element is an
// autodiff.Scalar and gradients live on those. Two tensors may share
// elements (Transpose does), in which case they share gradients too.
type Tensor2D struct {
	shape Shape
	data  []*autodiff.Scalar // len(data) == shape.NumElements()
}

// New creates a tensor from existing scalars laid out in row-major order.
// The slice is copied; the scalars are shared.
func New(shape Shape, elems []*autodiff.Scalar) (*Tensor2D, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if len(elems) != shape.NumElements() {
		return nil, fmt.Errorf("%w: %d elements for shape %v", ErrElementCountMismatch, len(elems), shape)
	}
	for i, e := range elems {
		if e == nil {
			return nil, fmt.Errorf("%w at index %d", ErrNilElement, i)
		}
	}

	data := make([]*autodiff.Scalar, len(elems))
	copy(data, elems)
	return &Tensor2D{shape: shape, data: data}, nil
}

// newUnchecked wraps data without validation. Callers guarantee the
// invariants.
func newUnchecked(shape Shape, data []*autodiff.Scalar) *Tensor2D {
	return &Tensor2D{shape: shape, data: data}
}

// Shape returns the tensor shape.
func (t *Tensor2D) Shape() Shape {
	return t.shape
}

// Rows returns the number of rows.
func (t *Tensor2D) Rows() int {
	return t.shape.Rows
}

// Cols returns the number of columns.
func (t *Tensor2D) Cols() int {
	return t.shape.Cols
}

// NumElements returns Rows*Cols.
func (t *Tensor2D) NumElements() int {
	return len(t.data)
}

// At returns the element at row i, column j. It panics if the index is out
// of range.
func (t *Tensor2D) At(i, j int) *autodiff.Scalar {
	if i < 0 || i >= t.shape.Rows || j < 0 || j >= t.shape.Cols {
		panic(fmt.Sprintf("tensor: index (%d, %d) out of range for shape %v", i, j, t.shape))
	}
	return t.data[i*t.shape.Cols+j]
}

// Item returns the only element of a 1×1 tensor.
func (t *Tensor2D) Item() (*autodiff.Scalar, error) {
	if !t.shape.IsScalar() {
		return nil, fmt.Errorf("item: %w, got %v", ErrInvalidBackwardTarget, t.shape)
	}
	return t.data[0], nil
}

// Elements returns the elements in row-major order. The slice is a copy;
// the scalars are shared with t.
func (t *Tensor2D) Elements() []*autodiff.Scalar {
	out := make([]*autodiff.Scalar, len(t.data))
	copy(out, t.data)
	return out
}

// All iterates over (row-major index, element) pairs.
//
//	for _, p := range weights.All() {
//	    p.SetValue(p.Value() - lr*p.Grad())
//	}
func (t *Tensor2D) All() iter.Seq2[int, *autodiff.Scalar] {
	return func(yield func(int, *autodiff.Scalar) bool) {
		for i, e := range t.data {
			if !yield(i, e) {
				return
			}
		}
	}
}

// Values returns a copy of the forward values as rows.
func (t *Tensor2D) Values() [][]float64 {
	return t.collect((*autodiff.Scalar).Value)
}

// Grads returns a copy of the element gradients as rows.
func (t *Tensor2D) Grads() [][]float64 {
	return t.collect((*autodiff.Scalar).Grad)
}

func (t *Tensor2D) collect(get func(*autodiff.Scalar) float64) [][]float64 {
	out := make([][]float64, t.shape.Rows)
	for i := range out {
		row := make([]float64, t.shape.Cols)
		for j := range row {
			row[j] = get(t.data[i*t.shape.Cols+j])
		}
		out[i] = row
	}
	return out
}

// ZeroGrad resets the gradient of every element.
func (t *Tensor2D) ZeroGrad() {
	for _, e := range t.data {
		e.ZeroGrad()
	}
}

// Backward runs backpropagation from a 1×1 tensor, typically a loss.
//
// Calling it on any other shape returns ErrInvalidBackwardTarget; reduce the
// tensor first with Sum or Mean.
func (t *Tensor2D) Backward() error {
	if !t.shape.IsScalar() {
		return fmt.Errorf("backward: %w, got %v", ErrInvalidBackwardTarget, t.shape)
	}
	t.data[0].Backward()
	return nil
}
