package nn_test

import (
	"math"
	"testing"

	"github.com/born-ml/grad2d/internal/nn"
	"github.com/born-ml/grad2d/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(t *testing.T, values ...float64) *tensor.Tensor2D {
	t.Helper()
	x, err := tensor.Row(values, false)
	require.NoError(t, err)
	return x
}

func TestNeuron_Forward(t *testing.T) {
	n := nn.NewNeuron("n", 3, nn.Tanh, nn.NewRand(1))
	require.Equal(t, 3, n.InFeatures())

	x := row(t, 2, 3, -1)
	out, err := n.Forward(x)
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{Rows: 1, Cols: 1}, out.Shape())

	w := n.Weight().Tensor().Values()
	b := n.Bias().Tensor().At(0, 0).Value()
	want := math.Tanh(2*w[0][0] + 3*w[1][0] - 1*w[2][0] + b)
	assert.InDelta(t, want, out.At(0, 0).Value(), 1e-12)

	_, err = n.Forward(row(t, 1, 2))
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

func TestNeuron_ParameterNames(t *testing.T) {
	n := nn.NewNeuron("layer.0.neuron.2", 2, nn.ReLU, nn.NewRand(1))
	params := n.Parameters()
	require.Len(t, params, 2)
	assert.Equal(t, "layer.0.neuron.2.weight", params[0].Name())
	assert.Equal(t, "layer.0.neuron.2.bias", params[1].Name())
	assert.Equal(t, tensor.Shape{Rows: 2, Cols: 1}, params[0].Tensor().Shape())
}

func TestLayer_ForwardBatch(t *testing.T) {
	l := nn.NewLayer("l", 3, 4, nn.Identity, nn.NewRand(2))
	x, err := tensor.FromRows([][]float64{{1, 2, 3}, {0, -1, 0.5}}, false)
	require.NoError(t, err)

	out, err := l.Forward(x)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{Rows: 2, Cols: 4}, out.Shape())

	// Column j is neuron j.
	for j, n := range l.Neurons() {
		col, err := n.Forward(x)
		require.NoError(t, err)
		for i := 0; i < 2; i++ {
			assert.InDelta(t, col.At(i, 0).Value(), out.At(i, j).Value(), 1e-12)
		}
	}
}

func TestMLP_Shapes(t *testing.T) {
	model, err := nn.NewMLP(nn.MLPConfig{Sizes: []int{3, 4, 4, 1}, Activation: nn.Tanh, Seed: 42})
	require.NoError(t, err)

	assert.Equal(t, []int{3, 4, 4, 1}, model.Sizes())
	assert.Len(t, model.Layers(), 3)
	assert.Len(t, model.Parameters(), 2*(4+4+1))
	assert.Len(t, nn.Scalars(model.Parameters()), 4*(3+1)+4*(4+1)+1*(4+1))

	out, err := model.Forward(row(t, 2, 3, -1))
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{Rows: 1, Cols: 1}, out.Shape())
	assert.Less(t, math.Abs(out.At(0, 0).Value()), 1.0)

	batch, err := tensor.FromRows([][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}, {0, 0, 0}}, false)
	require.NoError(t, err)
	out, err = model.Forward(batch)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{Rows: 4, Cols: 1}, out.Shape())

	_, err = model.Forward(row(t, 1, 2, 3, 4))
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
	assert.Contains(t, err.Error(), "layer 0")
}

func TestMLP_SeedIsReproducible(t *testing.T) {
	a, err := nn.NewMLP(nn.MLPConfig{Sizes: []int{2, 3, 1}, Seed: 7})
	require.NoError(t, err)
	b, err := nn.NewMLP(nn.MLPConfig{Sizes: []int{2, 3, 1}, Seed: 7})
	require.NoError(t, err)
	c, err := nn.NewMLP(nn.MLPConfig{Sizes: []int{2, 3, 1}, Seed: 8})
	require.NoError(t, err)

	pa, pb, pc := a.Parameters(), b.Parameters(), c.Parameters()
	for i := range pa {
		assert.Equal(t, pa[i].Name(), pb[i].Name())
		assert.Equal(t, pa[i].Tensor().Values(), pb[i].Tensor().Values())
	}
	assert.NotEqual(t, pa[0].Tensor().Values(), pc[0].Tensor().Values())
}

func TestMLP_InvalidArchitecture(t *testing.T) {
	for _, sizes := range [][]int{nil, {3}, {3, 0, 1}, {-1, 2}} {
		_, err := nn.NewMLP(nn.MLPConfig{Sizes: sizes})
		assert.ErrorIs(t, err, nn.ErrInvalidArchitecture, "sizes %v", sizes)
	}
}

func TestMLP_BackwardReachesEveryParameter(t *testing.T) {
	model, err := nn.NewMLP(nn.MLPConfig{Sizes: []int{3, 4, 4, 1}, Activation: nn.Tanh, Seed: 3})
	require.NoError(t, err)

	pred, err := model.Forward(row(t, 2, 3, -1))
	require.NoError(t, err)
	loss, err := nn.NewMSELoss().Forward([]*tensor.Tensor2D{pred}, []*tensor.Tensor2D{tensor.Scalar(1, false)})
	require.NoError(t, err)
	loss.Backward()

	for _, p := range model.Parameters() {
		for i, s := range p.Tensor().All() {
			assert.NotZero(t, s.Grad(), "%s[%d]", p.Name(), i)
		}
	}

	nn.ZeroGrad(model.Parameters())
	for _, s := range nn.Scalars(model.Parameters()) {
		assert.Zero(t, s.Grad())
	}
}

func TestActivation_ParseAndString(t *testing.T) {
	for _, a := range []nn.Activation{nn.Identity, nn.Tanh, nn.ReLU, nn.Sigmoid, nn.Exp} {
		parsed, err := nn.ParseActivation(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, parsed)
	}

	parsed, err := nn.ParseActivation(" TanH ")
	require.NoError(t, err)
	assert.Equal(t, nn.Tanh, parsed)

	_, err = nn.ParseActivation("gelu")
	assert.Error(t, err)
	assert.Equal(t, "Activation(99)", nn.Activation(99).String())
	assert.Panics(t, func() { nn.Activation(99).Apply(tensor.Scalar(1, false)) })
}
