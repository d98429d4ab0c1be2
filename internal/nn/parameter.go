package nn

import (
	"github.com/born-ml/grad2d/internal/tensor"
)

// Parameter represents a trainable parameter in a neural network.
//
// The tensor's elements are leaves that require gradients. Gradients are
// stored on the elements themselves, so there is no separate gradient
// tensor: read them with Tensor().Grads().
//
// Example:
//
//	weight := nn.NewParameter("layer.0.neuron.0.weight", tensor.Uniform(1, 3, true, rng))
//	loss.Backward()
//	grads := weight.Tensor().Grads()
type Parameter struct {
	name   string           // Parameter name (e.g., "layer.0.neuron.1.bias")
	tensor *tensor.Tensor2D // The parameter tensor
}

// NewParameter creates a new trainable parameter.
func NewParameter(name string, t *tensor.Tensor2D) *Parameter {
	return &Parameter{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter) Tensor() *tensor.Tensor2D {
	return p.tensor
}

// ZeroGrad clears the gradient of every element.
//
// This should be called before each training iteration; Backward adds to
// existing gradients.
func (p *Parameter) ZeroGrad() {
	p.tensor.ZeroGrad()
}
