package tensor_test

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/born-ml/grad2d/internal/autodiff"
	"github.com/born-ml/grad2d/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func mustRows(t *testing.T, values [][]float64, requiresGrad bool) *tensor.Tensor2D {
	t.Helper()
	out, err := tensor.FromRows(values, requiresGrad)
	require.NoError(t, err)
	return out
}

func TestNew_Validation(t *testing.T) {
	elems := []*autodiff.Scalar{autodiff.New(1, true), autodiff.New(2, true)}

	x, err := tensor.New(tensor.Shape{Rows: 1, Cols: 2}, elems)
	require.NoError(t, err)
	assert.Same(t, elems[1], x.At(0, 1))

	_, err = tensor.New(tensor.Shape{Rows: 2, Cols: 2}, elems)
	assert.ErrorIs(t, err, tensor.ErrElementCountMismatch)

	_, err = tensor.New(tensor.Shape{Rows: 0, Cols: 2}, nil)
	assert.ErrorIs(t, err, tensor.ErrInvalidShape)

	_, err = tensor.New(tensor.Shape{Rows: 1, Cols: 2}, []*autodiff.Scalar{elems[0], nil})
	assert.ErrorIs(t, err, tensor.ErrNilElement)
}

func TestFromRows(t *testing.T) {
	x := mustRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}}, true)

	assert.Equal(t, tensor.Shape{Rows: 2, Cols: 3}, x.Shape())
	assert.Equal(t, 6, x.NumElements())
	assert.Equal(t, [][]float64{{1, 2, 3}, {4, 5, 6}}, x.Values())
	assert.InDelta(t, 6.0, x.At(1, 2).Value(), eps)
	assert.True(t, x.At(0, 0).RequiresGrad())

	_, err := tensor.FromRows([][]float64{{1, 2}, {3}}, true)
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)

	_, err = tensor.FromRows(nil, true)
	assert.ErrorIs(t, err, tensor.ErrInvalidShape)

	_, err = tensor.Row([]float64{}, true)
	assert.ErrorIs(t, err, tensor.ErrInvalidShape)
}

func TestRowColScalar(t *testing.T) {
	r, err := tensor.Row([]float64{1, 2, 3}, false)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{Rows: 1, Cols: 3}, r.Shape())
	assert.False(t, r.At(0, 2).RequiresGrad())

	c, err := tensor.Col([]float64{1, 2, 3}, true)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{Rows: 3, Cols: 1}, c.Shape())
	assert.InDelta(t, 3.0, c.At(2, 0).Value(), eps)

	s := tensor.Scalar(4.5, true)
	assert.True(t, s.Shape().IsScalar())
	item, err := s.Item()
	require.NoError(t, err)
	assert.InDelta(t, 4.5, item.Value(), eps)

	_, err = r.Item()
	assert.ErrorIs(t, err, tensor.ErrInvalidBackwardTarget)
}

func TestAt_OutOfRangePanics(t *testing.T) {
	x := tensor.Zeros(2, 2, false)
	assert.Panics(t, func() { x.At(2, 0) })
	assert.Panics(t, func() { x.At(0, -1) })
	assert.Panics(t, func() { tensor.Zeros(0, 3, false) })
}

func TestUniform(t *testing.T) {
	x := tensor.Uniform(4, 5, true, seeded(1))

	assert.Equal(t, tensor.Shape{Rows: 4, Cols: 5}, x.Shape())
	for _, e := range x.All() {
		assert.GreaterOrEqual(t, e.Value(), -1.0)
		assert.Less(t, e.Value(), 1.0)
		assert.True(t, e.RequiresGrad())
	}

	// Same seed, same values.
	assert.Equal(t, x.Values(), tensor.Uniform(4, 5, true, seeded(1)).Values())
	assert.NotEqual(t, x.Values(), tensor.Uniform(4, 5, true, seeded(2)).Values())
}

func TestXavier_Scale(t *testing.T) {
	x := tensor.Xavier(16, 8, true, seeded(3))
	bound := 1 / 4.0 // 1/sqrt(16)
	for _, e := range x.All() {
		assert.LessOrEqual(t, e.Value(), bound)
		assert.GreaterOrEqual(t, e.Value(), -bound)
	}
}

func TestAll_StopsEarly(t *testing.T) {
	x := tensor.Full(3, 3, 1, false)
	count := 0
	for i := range x.All() {
		if i == 4 {
			break
		}
		count++
	}
	assert.Equal(t, 4, count)
}

func TestElements_IsCopy(t *testing.T) {
	x := tensor.Full(1, 2, 1, true)
	elems := x.Elements()
	elems[0] = autodiff.New(9, true)

	assert.InDelta(t, 1.0, x.At(0, 0).Value(), eps)
	assert.Same(t, elems[1], x.At(0, 1))
}

func TestBackward_RequiresScalarShape(t *testing.T) {
	x := tensor.Full(2, 2, 1, true)

	err := x.Backward()
	require.Error(t, err)
	assert.True(t, errors.Is(err, tensor.ErrInvalidBackwardTarget))

	loss := tensor.Scalar(3, true)
	require.NoError(t, loss.Backward())
	assert.Equal(t, [][]float64{{1}}, loss.Grads())
}

func TestZeroGrad(t *testing.T) {
	x := mustRows(t, [][]float64{{1, 2}, {3, 4}}, true)
	x.Sum().Backward()
	assert.Equal(t, [][]float64{{1, 1}, {1, 1}}, x.Grads())

	x.ZeroGrad()
	assert.Equal(t, [][]float64{{0, 0}, {0, 0}}, x.Grads())
}
