// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network building blocks on 2D tensors.
//
// Example:
//
//	model, err := nn.NewMLP(nn.MLPConfig{
//	    Sizes:      []int{3, 4, 4, 1},
//	    Activation: nn.Tanh,
//	    Seed:       42,
//	})
//	pred, err := model.Forward(x)
//	loss, err := nn.NewMSELoss().Forward([]*tensor.Tensor2D{pred}, targets)
//	loss.Backward()
package nn

import (
	"math/rand/v2"

	"github.com/born-ml/grad2d/internal/autodiff"
	"github.com/born-ml/grad2d/internal/nn"
	"github.com/born-ml/grad2d/internal/tensor"
)

// Module is the base interface for all neural network components.
type Module = nn.Module

// Parameter is a named trainable tensor.
type Parameter = nn.Parameter

// Activation selects an elementwise nonlinearity.
type Activation = nn.Activation

// Activations.
const (
	Identity Activation = nn.Identity
	Tanh     Activation = nn.Tanh
	ReLU     Activation = nn.ReLU
	Sigmoid  Activation = nn.Sigmoid
	Exp      Activation = nn.Exp
)

// Layers and containers.
type (
	Neuron     = nn.Neuron
	Layer      = nn.Layer
	MLP        = nn.MLP
	MLPConfig  = nn.MLPConfig
	Sequential = nn.Sequential
	MSELoss    = nn.MSELoss
)

// Errors.
var (
	ErrInvalidArchitecture = nn.ErrInvalidArchitecture
	ErrBatchSizeMismatch   = nn.ErrBatchSizeMismatch
)

// NewParameter wraps t as a named parameter.
func NewParameter(name string, t *tensor.Tensor2D) *Parameter {
	return nn.NewParameter(name, t)
}

// ParseActivation converts a name such as "tanh" into an Activation.
func ParseActivation(s string) (Activation, error) {
	return nn.ParseActivation(s)
}

// NewNeuron creates a neuron with in inputs.
func NewNeuron(name string, in int, activation Activation, src tensor.RandSource) *Neuron {
	return nn.NewNeuron(name, in, activation, src)
}

// NewLayer creates a layer of out neurons with in inputs each.
func NewLayer(name string, in, out int, activation Activation, src tensor.RandSource) *Layer {
	return nn.NewLayer(name, in, out, activation, src)
}

// NewMLP creates a multi-layer perceptron.
func NewMLP(config MLPConfig) (*MLP, error) {
	return nn.NewMLP(config)
}

// NewSequential chains modules.
func NewSequential(modules ...Module) *Sequential {
	return nn.NewSequential(modules...)
}

// NewMSELoss creates a mean squared error loss.
func NewMSELoss() *MSELoss {
	return nn.NewMSELoss()
}

// NewRand returns a seeded PCG generator usable as a RandSource.
func NewRand(seed uint64) *rand.Rand {
	return nn.NewRand(seed)
}

// Scalars flattens parameters into their trainable scalars.
func Scalars(params []*Parameter) []*autodiff.Scalar {
	return nn.Scalars(params)
}

// ZeroGrad clears the gradients of all parameters.
func ZeroGrad(params []*Parameter) {
	nn.ZeroGrad(params)
}
