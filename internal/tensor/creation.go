package tensor

import (
	"fmt"
	"math"

	"github.com/born-ml/grad2d/internal/autodiff"
)

// RandSource supplies uniform samples in [0, 1). *math/rand/v2.Rand and
// *math/rand.Rand both satisfy it.
type RandSource interface {
	Float64() float64
}

// fill builds a tensor of fresh leaves whose values come from value(i) for
// the row-major index i. It panics on an invalid shape.
func fill(shape Shape, requiresGrad bool, value func(i int) float64) *Tensor2D {
	if err := shape.Validate(); err != nil {
		panic(fmt.Sprintf("tensor: %v", err))
	}
	data := make([]*autodiff.Scalar, shape.NumElements())
	for i := range data {
		data[i] = autodiff.New(value(i), requiresGrad)
	}
	return newUnchecked(shape, data)
}

// Zeros creates a rows×cols tensor of zero-valued leaves.
func Zeros(rows, cols int, requiresGrad bool) *Tensor2D {
	return Full(rows, cols, 0, requiresGrad)
}

// Full creates a rows×cols tensor of leaves set to value.
func Full(rows, cols int, value float64, requiresGrad bool) *Tensor2D {
	return fill(Shape{rows, cols}, requiresGrad, func(int) float64 { return value })
}

// Scalar creates a 1×1 tensor.
func Scalar(value float64, requiresGrad bool) *Tensor2D {
	return Full(1, 1, value, requiresGrad)
}

// Uniform creates a rows×cols tensor of leaves drawn uniformly from [-1, 1).
//
// The generator is explicit so that initialization is reproducible:
//
//	rng := rand.New(rand.NewPCG(42, 0))
//	w := tensor.Uniform(3, 3, true, rng)
func Uniform(rows, cols int, requiresGrad bool, src RandSource) *Tensor2D {
	return fill(Shape{rows, cols}, requiresGrad, func(int) float64 {
		return src.Float64()*2 - 1
	})
}

// Xavier creates a rows×cols tensor drawn from U(-1, 1) / sqrt(rows).
func Xavier(rows, cols int, requiresGrad bool, src RandSource) *Tensor2D {
	scale := 1 / math.Sqrt(float64(rows))
	return fill(Shape{rows, cols}, requiresGrad, func(int) float64 {
		return (src.Float64()*2 - 1) * scale
	})
}

// FromRows creates a tensor from a rectangular slice of rows.
//
// Returns ErrInvalidShape if values is empty or has an empty row and
// ErrShapeMismatch if the rows are ragged.
func FromRows(values [][]float64, requiresGrad bool) (*Tensor2D, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("from rows: %w: no rows", ErrInvalidShape)
	}
	shape := Shape{Rows: len(values), Cols: len(values[0])}
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("from rows: %w", err)
	}
	for i, row := range values {
		if len(row) != shape.Cols {
			return nil, fmt.Errorf("from rows: %w: row %d has %d values, want %d",
				ErrShapeMismatch, i, len(row), shape.Cols)
		}
	}

	return fill(shape, requiresGrad, func(i int) float64 {
		return values[i/shape.Cols][i%shape.Cols]
	}), nil
}

// Row creates a 1×N tensor.
func Row(values []float64, requiresGrad bool) (*Tensor2D, error) {
	return FromRows([][]float64{values}, requiresGrad)
}

// Col creates an N×1 tensor.
func Col(values []float64, requiresGrad bool) (*Tensor2D, error) {
	t, err := Row(values, requiresGrad)
	if err != nil {
		return nil, err
	}
	return t.Transpose(), nil
}
