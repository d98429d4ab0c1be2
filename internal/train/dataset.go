package train

import (
	"fmt"

	"github.com/born-ml/grad2d/internal/tensor"
)

// Dataset is a set of row-vector inputs with scalar targets.
type Dataset struct {
	Inputs  [][]float64
	Targets []float64
}

// Toy is the four-sample binary classification set used by the CLI.
var Toy = Dataset{
	Inputs: [][]float64{
		{2.0, 3.0, -1.0},
		{3.0, -1.0, 0.5},
		{0.5, 1.0, 1.0},
		{1.0, 1.0, -1.0},
	},
	Targets: []float64{1.0, -1.0, -1.0, 1.0},
}

// Tensors converts the dataset into frozen 1×n inputs and 1×1 targets.
func (d Dataset) Tensors() (xs, ys []*tensor.Tensor2D, err error) {
	if len(d.Inputs) != len(d.Targets) {
		return nil, nil, fmt.Errorf("dataset: %d inputs, %d targets", len(d.Inputs), len(d.Targets))
	}
	for i, in := range d.Inputs {
		x, err := tensor.Row(in, false)
		if err != nil {
			return nil, nil, fmt.Errorf("dataset: sample %d: %w", i, err)
		}
		xs = append(xs, x)
		ys = append(ys, tensor.Scalar(d.Targets[i], false))
	}
	return xs, ys, nil
}
