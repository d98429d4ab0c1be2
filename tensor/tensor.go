// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides 2D tensors whose elements are autodiff scalars.
//
// A Tensor2D is a row-major grid of *autodiff.Scalar. Tensor operations
// build ordinary scalar graphs, so gradients flow through them with the
// same Backward used for scalars.
//
// Example:
//
//	x, _ := tensor.Row([]float64{1, 2, 3}, false)
//	w := tensor.Uniform(3, 2, true, rand.New(rand.NewPCG(1, 2)))
//	y, err := x.MatMul(w) // [1, 2]
//	if err != nil {
//	    return err
//	}
//	y.Sum().Backward()
//	fmt.Println(w.Grads())
package tensor

import (
	"github.com/born-ml/grad2d/internal/autodiff"
	"github.com/born-ml/grad2d/internal/tensor"
)

// Tensor2D is a 2D grid of scalars.
type Tensor2D = tensor.Tensor2D

// Shape is the (rows, cols) extent of a tensor.
type Shape = tensor.Shape

// ShapeError reports incompatible operand shapes.
type ShapeError = tensor.ShapeError

// RandSource supplies uniform samples in [0, 1).
type RandSource = tensor.RandSource

// Errors returned by tensor operations.
var (
	ErrShapeMismatch         = tensor.ErrShapeMismatch
	ErrInvalidShape          = tensor.ErrInvalidShape
	ErrInvalidBackwardTarget = tensor.ErrInvalidBackwardTarget
	ErrElementCountMismatch  = tensor.ErrElementCountMismatch
	ErrNilElement            = tensor.ErrNilElement
)

// New assembles a tensor from existing scalars in row-major order.
func New(shape Shape, elems []*autodiff.Scalar) (*Tensor2D, error) {
	return tensor.New(shape, elems)
}

// Zeros creates a rows×cols tensor of fresh zero leaves.
func Zeros(rows, cols int, requiresGrad bool) *Tensor2D {
	return tensor.Zeros(rows, cols, requiresGrad)
}

// Full creates a rows×cols tensor of fresh leaves holding value.
func Full(rows, cols int, value float64, requiresGrad bool) *Tensor2D {
	return tensor.Full(rows, cols, value, requiresGrad)
}

// Scalar creates a 1×1 tensor.
func Scalar(value float64, requiresGrad bool) *Tensor2D {
	return tensor.Scalar(value, requiresGrad)
}

// Uniform creates a rows×cols tensor with values drawn from [-1, 1).
func Uniform(rows, cols int, requiresGrad bool, src RandSource) *Tensor2D {
	return tensor.Uniform(rows, cols, requiresGrad, src)
}

// Xavier creates a rows×cols tensor drawn from [-1, 1) scaled by 1/√rows.
func Xavier(rows, cols int, requiresGrad bool, src RandSource) *Tensor2D {
	return tensor.Xavier(rows, cols, requiresGrad, src)
}

// FromRows creates a tensor from equal-length rows.
func FromRows(values [][]float64, requiresGrad bool) (*Tensor2D, error) {
	return tensor.FromRows(values, requiresGrad)
}

// Row creates a 1×n tensor.
func Row(values []float64, requiresGrad bool) (*Tensor2D, error) {
	return tensor.Row(values, requiresGrad)
}

// Col creates an n×1 tensor.
func Col(values []float64, requiresGrad bool) (*Tensor2D, error) {
	return tensor.Col(values, requiresGrad)
}
