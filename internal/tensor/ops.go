package tensor

import (
	"github.com/born-ml/grad2d/internal/autodiff"
)

// zip applies f to corresponding elements of t and other, which must have
// identical shapes.
func (t *Tensor2D) zip(op string, other *Tensor2D, f func(a, b *autodiff.Scalar) *autodiff.Scalar) (*Tensor2D, error) {
	if !t.shape.Equal(other.shape) {
		return nil, &ShapeError{Op: op, Left: t.shape, Right: other.shape}
	}
	out := make([]*autodiff.Scalar, len(t.data))
	for i := range t.data {
		out[i] = f(t.data[i], other.data[i])
	}
	return newUnchecked(t.shape, out), nil
}

// apply maps f over every element in row-major order.
func (t *Tensor2D) apply(f func(a *autodiff.Scalar) *autodiff.Scalar) *Tensor2D {
	out := make([]*autodiff.Scalar, len(t.data))
	for i, e := range t.data {
		out[i] = f(e)
	}
	return newUnchecked(t.shape, out)
}

// Add returns the elementwise sum. Shapes must match exactly.
func (t *Tensor2D) Add(other *Tensor2D) (*Tensor2D, error) {
	return t.zip("add", other, (*autodiff.Scalar).Add)
}

// Sub returns the elementwise difference. Shapes must match exactly.
func (t *Tensor2D) Sub(other *Tensor2D) (*Tensor2D, error) {
	return t.zip("sub", other, (*autodiff.Scalar).Sub)
}

// Hadamard returns the elementwise product. Shapes must match exactly.
func (t *Tensor2D) Hadamard(other *Tensor2D) (*Tensor2D, error) {
	return t.zip("hadamard", other, (*autodiff.Scalar).Mul)
}

// AddScalar adds s to every element. All output elements share s, so its
// gradient collects the contributions of every position.
func (t *Tensor2D) AddScalar(s *autodiff.Scalar) *Tensor2D {
	return t.apply(func(a *autodiff.Scalar) *autodiff.Scalar { return a.Add(s) })
}

// SubScalar subtracts s from every element.
func (t *Tensor2D) SubScalar(s *autodiff.Scalar) *Tensor2D {
	return t.apply(func(a *autodiff.Scalar) *autodiff.Scalar { return a.Sub(s) })
}

// MulScalar multiplies every element by s.
func (t *Tensor2D) MulScalar(s *autodiff.Scalar) *Tensor2D {
	return t.apply(func(a *autodiff.Scalar) *autodiff.Scalar { return a.Mul(s) })
}

// DivScalar divides every element by s.
func (t *Tensor2D) DivScalar(s *autodiff.Scalar) *Tensor2D {
	return t.apply(func(a *autodiff.Scalar) *autodiff.Scalar { return a.Div(s) })
}

// AddConst adds a constant to every element.
func (t *Tensor2D) AddConst(c float64) *Tensor2D { return t.AddScalar(autodiff.Const(c)) }

// SubConst subtracts a constant from every element.
func (t *Tensor2D) SubConst(c float64) *Tensor2D { return t.SubScalar(autodiff.Const(c)) }

// MulConst multiplies every element by a constant.
func (t *Tensor2D) MulConst(c float64) *Tensor2D { return t.MulScalar(autodiff.Const(c)) }

// DivConst divides every element by a constant.
func (t *Tensor2D) DivConst(c float64) *Tensor2D { return t.DivScalar(autodiff.Const(c)) }

// Pow raises every element to exponent.
func (t *Tensor2D) Pow(exponent float64) *Tensor2D {
	return t.apply(func(a *autodiff.Scalar) *autodiff.Scalar { return a.Pow(exponent) })
}

// Neg negates every element.
func (t *Tensor2D) Neg() *Tensor2D { return t.apply((*autodiff.Scalar).Neg) }

// ReLU applies max(0, x) elementwise.
func (t *Tensor2D) ReLU() *Tensor2D { return t.apply((*autodiff.Scalar).ReLU) }

// Exp applies e^x elementwise.
func (t *Tensor2D) Exp() *Tensor2D { return t.apply((*autodiff.Scalar).Exp) }

// Tanh applies tanh elementwise.
func (t *Tensor2D) Tanh() *Tensor2D { return t.apply((*autodiff.Scalar).Tanh) }

// Sigmoid applies the logistic function elementwise.
func (t *Tensor2D) Sigmoid() *Tensor2D { return t.apply((*autodiff.Scalar).Sigmoid) }

// MatMul returns the matrix product t × other.
//
// t.Cols() must equal other.Rows(); the result is t.Rows() × other.Cols().
// Element (i, j) is a single sum node over the k products t[i,k]*other[k,j],
// so every term receives its own gradient.
func (t *Tensor2D) MatMul(other *Tensor2D) (*Tensor2D, error) {
	if t.shape.Cols != other.shape.Rows {
		return nil, &ShapeError{Op: "matmul", Left: t.shape, Right: other.shape}
	}

	m, k, n := t.shape.Rows, t.shape.Cols, other.shape.Cols
	out := make([]*autodiff.Scalar, m*n)
	terms := make([]*autodiff.Scalar, k)

	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			for p := 0; p < k; p++ {
				terms[p] = t.data[i*k+p].Mul(other.data[p*n+j])
			}
			out[i*n+j] = autodiff.Sum(terms...)
		}
	}

	return newUnchecked(Shape{m, n}, out), nil
}

// Transpose returns the cols×rows transpose. No nodes are created: the
// result shares its elements with t.
func (t *Tensor2D) Transpose() *Tensor2D {
	rows, cols := t.shape.Rows, t.shape.Cols
	out := make([]*autodiff.Scalar, len(t.data))
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out[j*rows+i] = t.data[i*cols+j]
		}
	}
	return newUnchecked(Shape{cols, rows}, out)
}

// Sum reduces all elements to a single scalar.
func (t *Tensor2D) Sum() *autodiff.Scalar {
	return autodiff.Sum(t.data...)
}

// Mean returns the arithmetic mean of all elements.
func (t *Tensor2D) Mean() *autodiff.Scalar {
	return t.Sum().DivConst(float64(len(t.data)))
}
