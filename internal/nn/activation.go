package nn

import (
	"fmt"
	"strings"

	"github.com/born-ml/grad2d/internal/tensor"
)

// Activation selects the elementwise nonlinearity applied by a neuron.
type Activation uint8

// Supported activations.
const (
	Identity Activation = iota
	Tanh
	ReLU
	Sigmoid
	Exp
)

var activationNames = map[Activation]string{
	Identity: "identity",
	Tanh:     "tanh",
	ReLU:     "relu",
	Sigmoid:  "sigmoid",
	Exp:      "exp",
}

// String returns the lower-case activation name.
func (a Activation) String() string {
	if name, ok := activationNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Activation(%d)", uint8(a))
}

// ParseActivation converts a name such as "tanh" into an Activation.
// Matching is case-insensitive.
func ParseActivation(s string) (Activation, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for a, name := range activationNames {
		if name == want {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown activation %q", s)
}

// Apply applies the activation elementwise.
func (a Activation) Apply(x *tensor.Tensor2D) *tensor.Tensor2D {
	switch a {
	case Identity:
		return x
	case Tanh:
		return x.Tanh()
	case ReLU:
		return x.ReLU()
	case Sigmoid:
		return x.Sigmoid()
	case Exp:
		return x.Exp()
	default:
		panic(fmt.Sprintf("nn: unsupported activation %s", a))
	}
}

// Forward lets an Activation stand alone as a Module in a Sequential.
func (a Activation) Forward(input *tensor.Tensor2D) (*tensor.Tensor2D, error) {
	return a.Apply(input), nil
}

// Parameters returns nil (activations have no trainable parameters).
func (a Activation) Parameters() []*Parameter {
	return nil
}
