package nn

import (
	"errors"
	"fmt"

	"github.com/born-ml/grad2d/internal/tensor"
)

// ErrInvalidArchitecture is returned for MLP configurations that cannot
// describe a network.
var ErrInvalidArchitecture = errors.New("invalid MLP architecture")

// MLPConfig holds configuration for an MLP.
type MLPConfig struct {
	Sizes      []int             // Layer widths including input and output, e.g. [3, 4, 4, 1]
	Activation Activation        // Applied by every neuron (default: Identity)
	Rand       tensor.RandSource // Weight initialization source (default: NewRand(Seed))
	Seed       uint64            // Used only when Rand is nil
}

// MLP is a multi-layer perceptron: a stack of fully connected layers.
//
// Example:
//
//	model, err := nn.NewMLP(nn.MLPConfig{
//	    Sizes:      []int{3, 4, 4, 1},
//	    Activation: nn.Tanh,
//	    Seed:       42,
//	})
//	out, err := model.Forward(x) // x: [batch, 3] -> out: [batch, 1]
type MLP struct {
	seq    *Sequential
	layers []*Layer
	sizes  []int
}

// NewMLP creates an MLP from config.
//
// Returns ErrInvalidArchitecture if fewer than two sizes are given or any
// size is not positive.
func NewMLP(config MLPConfig) (*MLP, error) {
	if len(config.Sizes) < 2 {
		return nil, fmt.Errorf("%w: need at least input and output sizes, got %v", ErrInvalidArchitecture, config.Sizes)
	}
	for i, s := range config.Sizes {
		if s <= 0 {
			return nil, fmt.Errorf("%w: size %d at index %d", ErrInvalidArchitecture, s, i)
		}
	}

	src := config.Rand
	if src == nil {
		src = NewRand(config.Seed)
	}

	layers := make([]*Layer, len(config.Sizes)-1)
	seq := NewSequential()
	for i := range layers {
		layers[i] = NewLayer(fmt.Sprintf("layer.%d", i), config.Sizes[i], config.Sizes[i+1], config.Activation, src)
		seq.Add(layers[i])
	}

	sizes := make([]int, len(config.Sizes))
	copy(sizes, config.Sizes)
	return &MLP{seq: seq, layers: layers, sizes: sizes}, nil
}

// Sizes returns the layer widths the MLP was built with.
func (m *MLP) Sizes() []int {
	out := make([]int, len(m.sizes))
	copy(out, m.sizes)
	return out
}

// Layers returns the layers in evaluation order.
func (m *MLP) Layers() []*Layer {
	return m.layers
}

// Forward runs input through every layer.
func (m *MLP) Forward(input *tensor.Tensor2D) (*tensor.Tensor2D, error) {
	return m.seq.Forward(input)
}

// Parameters returns all parameters, layer by layer.
func (m *MLP) Parameters() []*Parameter {
	return m.seq.Parameters()
}
