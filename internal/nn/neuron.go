package nn

import (
	"fmt"

	"github.com/born-ml/grad2d/internal/autodiff"
	"github.com/born-ml/grad2d/internal/tensor"
)

// Neuron computes act(x·w + b) for every row of its input.
//
// Input shape: [batch, in]
// Output shape: [batch, 1]
type Neuron struct {
	weight     *Parameter // [in, 1]
	bias       *Parameter // [1, 1]
	activation Activation
}

// NewNeuron creates a neuron with in inputs.
//
// Weights are drawn from U(-1, 1)/sqrt(in), the bias from U(-1, 1).
func NewNeuron(name string, in int, activation Activation, src tensor.RandSource) *Neuron {
	return &Neuron{
		weight:     NewParameter(name+".weight", xavierColumn(in, src)),
		bias:       NewParameter(name+".bias", tensor.Xavier(1, 1, true, src)),
		activation: activation,
	}
}

// InFeatures returns the number of inputs.
func (n *Neuron) InFeatures() int {
	return n.weight.Tensor().Rows()
}

// Weight returns the [in, 1] weight parameter.
func (n *Neuron) Weight() *Parameter { return n.weight }

// Bias returns the [1, 1] bias parameter.
func (n *Neuron) Bias() *Parameter { return n.bias }

// Forward computes act(input·w + b). The bias is broadcast over the batch.
func (n *Neuron) Forward(input *tensor.Tensor2D) (*tensor.Tensor2D, error) {
	z, err := input.MatMul(n.weight.Tensor())
	if err != nil {
		return nil, fmt.Errorf("neuron %s: %w", n.weight.Name(), err)
	}
	b := n.bias.Tensor().At(0, 0)
	return n.activation.Apply(z.AddScalar(b)), nil
}

// Parameters returns [weight, bias].
func (n *Neuron) Parameters() []*Parameter {
	return []*Parameter{n.weight, n.bias}
}

// Layer is a row of independent neurons sharing the same input.
//
// Input shape: [batch, in]
// Output shape: [batch, out]
type Layer struct {
	neurons []*Neuron
}

// NewLayer creates a layer of out neurons with in inputs each.
func NewLayer(name string, in, out int, activation Activation, src tensor.RandSource) *Layer {
	neurons := make([]*Neuron, out)
	for i := range neurons {
		neurons[i] = NewNeuron(fmt.Sprintf("%s.neuron.%d", name, i), in, activation, src)
	}
	return &Layer{neurons: neurons}
}

// Neurons returns the neurons of the layer.
func (l *Layer) Neurons() []*Neuron {
	return l.neurons
}

// Forward evaluates every neuron and places neuron j's output in column j.
func (l *Layer) Forward(input *tensor.Tensor2D) (*tensor.Tensor2D, error) {
	batch, out := input.Rows(), len(l.neurons)
	elems := make([]*autodiff.Scalar, batch*out)

	for j, n := range l.neurons {
		col, err := n.Forward(input)
		if err != nil {
			return nil, err
		}
		for i := 0; i < batch; i++ {
			elems[i*out+j] = col.At(i, 0)
		}
	}

	return tensor.New(tensor.Shape{Rows: batch, Cols: out}, elems)
}

// Parameters returns the parameters of every neuron, in neuron order.
func (l *Layer) Parameters() []*Parameter {
	params := make([]*Parameter, 0, 2*len(l.neurons))
	for _, n := range l.neurons {
		params = append(params, n.Parameters()...)
	}
	return params
}
