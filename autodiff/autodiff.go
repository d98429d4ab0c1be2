// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation over
// scalars.
//
// Every operation on a Scalar records a graph node. Backward on a result
// accumulates d(result)/d(x) into every leaf x created with
// requiresGrad = true.
//
// Example:
//
//	import "github.com/born-ml/grad2d/autodiff"
//
//	func main() {
//	    a := autodiff.New(1.0, true)
//	    b := autodiff.New(2.0, true)
//	    d := a.Add(b).ReLU().Exp()
//	    d.Backward()
//	    fmt.Println(a.Grad(), b.Grad()) // e³, e³
//	}
package autodiff

import (
	"github.com/born-ml/grad2d/internal/autodiff"
)

// Scalar is a handle to a node in the computation graph.
type Scalar = autodiff.Scalar

// Op identifies the operation that produced a Scalar.
type Op = autodiff.Op

// Operation constants.
const (
	OpLeaf    Op = autodiff.OpLeaf
	OpAdd     Op = autodiff.OpAdd
	OpSub     Op = autodiff.OpSub
	OpMul     Op = autodiff.OpMul
	OpDiv     Op = autodiff.OpDiv
	OpNeg     Op = autodiff.OpNeg
	OpPow     Op = autodiff.OpPow
	OpReLU    Op = autodiff.OpReLU
	OpExp     Op = autodiff.OpExp
	OpTanh    Op = autodiff.OpTanh
	OpSigmoid Op = autodiff.OpSigmoid
	OpSum     Op = autodiff.OpSum
)

// New creates a leaf scalar. Only leaves with requiresGrad = true receive
// gradients, and only operations that touch one propagate into it.
func New(value float64, requiresGrad bool) *Scalar {
	return autodiff.New(value, requiresGrad)
}

// Const creates a frozen leaf (requiresGrad = false).
func Const(value float64) *Scalar {
	return autodiff.Const(value)
}

// Sum adds any number of scalars with a single n-ary node.
//
// Panics if xs is empty.
func Sum(xs ...*Scalar) *Scalar {
	return autodiff.Sum(xs...)
}
