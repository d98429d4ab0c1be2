// Package nn implements neural network modules on top of the scalar engine.
//
// This package provides building blocks for small fully connected networks:
//   - Module interface: Base interface for all NN components
//   - Parameter: Named trainable tensor
//   - Neuron, Layer, MLP: act(x·w + b) units stacked into layers
//   - Sequential: Chains modules, including bare activations
//   - Activations: Tanh, ReLU, Sigmoid, Exp, Identity
//   - Loss functions: MSE
//
// Every module builds ordinary autodiff graphs, so a loss computed from a
// module's output can be differentiated with Backward and the gradients read
// back from Parameters().
package nn

import (
	"github.com/born-ml/grad2d/internal/autodiff"
	"github.com/born-ml/grad2d/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Every NN module must implement:
//   - Forward: Compute output from input
//   - Parameters: Return all trainable parameters
type Module interface {
	// Forward computes the output of the module for a [batch, in] input.
	//
	// Returns an error wrapping tensor.ErrShapeMismatch if the input width
	// does not match the module.
	Forward(input *tensor.Tensor2D) (*tensor.Tensor2D, error)

	// Parameters returns all trainable parameters of this module,
	// including those of nested modules, in a stable order.
	Parameters() []*Parameter
}

// Scalars flattens parameters into their individual trainable scalars,
// in parameter order and row-major within each parameter.
func Scalars(params []*Parameter) []*autodiff.Scalar {
	n := 0
	for _, p := range params {
		n += p.Tensor().NumElements()
	}
	out := make([]*autodiff.Scalar, 0, n)
	for _, p := range params {
		for _, s := range p.Tensor().All() {
			out = append(out, s)
		}
	}
	return out
}

// ZeroGrad clears the gradients of all parameters.
func ZeroGrad(params []*Parameter) {
	for _, p := range params {
		p.ZeroGrad()
	}
}
