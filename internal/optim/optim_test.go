package optim_test

import (
	"math"
	"testing"

	"github.com/born-ml/grad2d/internal/autodiff"
	"github.com/born-ml/grad2d/internal/nn"
	"github.com/born-ml/grad2d/internal/optim"
	"github.com/born-ml/grad2d/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// param creates a 1×n parameter with the given values.
func param(t *testing.T, name string, values ...float64) *nn.Parameter {
	t.Helper()
	x, err := tensor.Row(values, true)
	require.NoError(t, err)
	return nn.NewParameter(name, x)
}

// setGrad runs backward on sum(c * x) so that every element of x gets
// gradient c.
func setGrad(p *nn.Parameter, c float64) {
	p.Tensor().MulConst(c).Sum().Backward()
}

func TestSGD_SimpleUpdate(t *testing.T) {
	x := param(t, "x", 2.0)
	optimizer := optim.NewSGD([]*nn.Parameter{x}, optim.SGDConfig{LR: 0.1})

	setGrad(x, 1.0)
	optimizer.Step()

	// x_new = x_old - lr * grad = 2.0 - 0.1 * 1.0 = 1.9
	assert.InDelta(t, 1.9, x.Tensor().At(0, 0).Value(), 1e-12)
}

func TestSGD_WithMomentum(t *testing.T) {
	x := param(t, "x", 1.0)
	optimizer := optim.NewSGD([]*nn.Parameter{x}, optim.SGDConfig{LR: 0.1, Momentum: 0.9})

	// Step 1: v = 1, x = 1 - 0.1
	setGrad(x, 1.0)
	optimizer.Step()
	assert.InDelta(t, 0.9, x.Tensor().At(0, 0).Value(), 1e-12)

	// Step 2: v = 0.9*1 + 1 = 1.9, x = 0.9 - 0.19
	optimizer.ZeroGrad()
	setGrad(x, 1.0)
	optimizer.Step()
	assert.InDelta(t, 0.71, x.Tensor().At(0, 0).Value(), 1e-12)

	state := optimizer.StateDict()
	require.Contains(t, state, "velocity.0")
	assert.InDelta(t, 1.9, state["velocity.0"][0], 1e-12)
}

func TestSGD_ZeroGrad(t *testing.T) {
	x := param(t, "x", 1.0, 2.0)
	optimizer := optim.NewSGD([]*nn.Parameter{x}, optim.SGDConfig{})
	setGrad(x, 3.0)
	require.Equal(t, [][]float64{{3, 3}}, x.Tensor().Grads())

	optimizer.ZeroGrad()
	assert.Equal(t, [][]float64{{0, 0}}, x.Tensor().Grads())
}

func TestSGD_GetSetLR(t *testing.T) {
	optimizer := optim.NewSGD(nil, optim.SGDConfig{})
	assert.InDelta(t, 0.01, optimizer.GetLR(), 1e-12) // default

	optimizer.SetLR(0.5)
	assert.InDelta(t, 0.5, optimizer.GetLR(), 1e-12)
}

func TestSGD_StateDictRoundTrip(t *testing.T) {
	x := param(t, "x", 1.0, 2.0)
	y := param(t, "y", 3.0)
	config := optim.SGDConfig{LR: 0.1, Momentum: 0.5}

	src := optim.NewSGD([]*nn.Parameter{x, y}, config)
	setGrad(x, 2.0)
	setGrad(y, -1.0)
	src.Step()

	dst := optim.NewSGD([]*nn.Parameter{x, y}, config)
	require.NoError(t, dst.LoadStateDict(src.StateDict()))
	assert.Equal(t, src.StateDict(), dst.StateDict())

	bad := map[string][]float64{"velocity.0": {1}}
	assert.Error(t, dst.LoadStateDict(bad))

	plain := optim.NewSGD([]*nn.Parameter{x}, optim.SGDConfig{})
	assert.Empty(t, plain.StateDict())
	assert.NoError(t, plain.LoadStateDict(bad))
}

func TestAdam_SimpleUpdate(t *testing.T) {
	x := param(t, "x", 1.0)
	optimizer := optim.NewAdam([]*nn.Parameter{x}, optim.AdamConfig{LR: 0.1})

	setGrad(x, 0.5)
	optimizer.Step()

	// First step of Adam moves by ~lr in the direction of -sign(grad).
	assert.InDelta(t, 0.9, x.Tensor().At(0, 0).Value(), 1e-6)
	assert.InDelta(t, 0.1, optimizer.GetLR(), 1e-12)
}

func TestAdam_StateDict(t *testing.T) {
	x := param(t, "x", 1.0, -1.0)
	optimizer := optim.NewAdam([]*nn.Parameter{x}, optim.AdamConfig{})
	setGrad(x, 1.0)
	optimizer.Step()
	optimizer.Step()

	state := optimizer.StateDict()
	assert.Equal(t, []float64{2}, state["t"])
	require.Len(t, state["m.0"], 2)
	require.Len(t, state["v.0"], 2)

	restored := optim.NewAdam([]*nn.Parameter{x}, optim.AdamConfig{})
	require.NoError(t, restored.LoadStateDict(state))
	assert.Equal(t, state, restored.StateDict())
}

// Minimizes (w - 3)² with each optimizer.
func TestConvergence_SimpleQuadratic(t *testing.T) {
	tests := []struct {
		name string
		make func([]*nn.Parameter) optim.Optimizer
	}{
		{"sgd", func(p []*nn.Parameter) optim.Optimizer {
			return optim.NewSGD(p, optim.SGDConfig{LR: 0.1})
		}},
		{"sgd momentum", func(p []*nn.Parameter) optim.Optimizer {
			return optim.NewSGD(p, optim.SGDConfig{LR: 0.05, Momentum: 0.9})
		}},
		{"adam", func(p []*nn.Parameter) optim.Optimizer {
			return optim.NewAdam(p, optim.AdamConfig{LR: 0.1})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := param(t, "w", 0.0)
			optimizer := tt.make([]*nn.Parameter{w})

			for range 500 {
				optimizer.ZeroGrad()
				loss := w.Tensor().At(0, 0).SubConst(3).Pow(2)
				loss.Backward()
				optimizer.Step()
			}

			assert.InDelta(t, 3.0, w.Tensor().At(0, 0).Value(), 5e-2)
		})
	}
}

func TestMultipleParameters(t *testing.T) {
	a := param(t, "a", 1.0, 2.0)
	b := param(t, "b", -1.0)
	optimizer := optim.NewSGD([]*nn.Parameter{a, b}, optim.SGDConfig{LR: 0.5})

	// loss = Σa² + b²
	loss := autodiff.Sum(a.Tensor().Pow(2).Sum(), b.Tensor().Pow(2).Sum())
	loss.Backward()
	optimizer.Step()

	assert.Equal(t, [][]float64{{0, 0}}, a.Tensor().Values())
	assert.Equal(t, [][]float64{{0}}, b.Tensor().Values())
	assert.False(t, math.IsNaN(loss.Value()))
}
