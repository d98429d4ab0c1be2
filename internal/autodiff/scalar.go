package autodiff

import (
	"fmt"
	"math"
)

// Scalar is a handle to a single graph node.
//
// Copies of a *Scalar share the node. Operations never modify their
// operands; they return a new Scalar wired to them.
type Scalar struct {
	n *node
}

// New creates a leaf scalar.
//
// Leaves with requiresGrad == false are frozen: they take part in the forward
// computation but never receive a gradient.
func New(value float64, requiresGrad bool) *Scalar {
	return &Scalar{n: newLeaf(value, requiresGrad)}
}

// Const creates a frozen leaf. It is used for numeric literals mixed into
// a computation (x + 1, 2 * x).
func Const(value float64) *Scalar {
	return New(value, false)
}

func wrap(n *node) *Scalar {
	return &Scalar{n: n}
}

func (s *Scalar) node() *node {
	if s == nil || s.n == nil {
		panic("autodiff: use of nil Scalar")
	}
	return s.n
}

// Value returns the forward value.
func (s *Scalar) Value() float64 {
	return s.node().data
}

// Grad returns the accumulated gradient.
func (s *Scalar) Grad() float64 {
	return s.node().grad
}

// SetValue overwrites the forward value. Optimizers use it to update
// parameters in place. Nodes already computed from s are not recomputed.
func (s *Scalar) SetValue(v float64) {
	s.node().data = v
}

// ZeroGrad resets the gradient to zero.
func (s *Scalar) ZeroGrad() {
	s.node().grad = 0
}

// RequiresGrad reports whether gradients flow into s.
func (s *Scalar) RequiresGrad() bool {
	return s.node().requiresGrad
}

// Op returns the operation that produced s (OpLeaf for leaves).
func (s *Scalar) Op() Op {
	return s.node().op
}

// Operands returns handles to the direct inputs of s, in operand order.
// The returned handles share nodes with the graph.
func (s *Scalar) Operands() []*Scalar {
	ops := s.node().operands
	out := make([]*Scalar, len(ops))
	for i, o := range ops {
		out[i] = wrap(o)
	}
	return out
}

// String formats the value and gradient, e.g. "2.0000 [grad 1.0000]".
func (s *Scalar) String() string {
	if s == nil || s.n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%.4f [grad %.4f]", s.n.data, s.n.grad)
}

// Backward computes the gradient of s with respect to every ancestor that
// requires one, seeding d(s)/d(s) = 1.
//
// Leaf gradients accumulate across calls; call ZeroGrad on parameters before
// reusing them for a new pass. If s itself does not require a gradient,
// Backward does nothing.
func (s *Scalar) Backward() {
	backward(s.node())
}

// Add returns s + other.
func (s *Scalar) Add(other *Scalar) *Scalar {
	a, b := s.node(), other.node()
	return wrap(newOp(OpAdd, a.data+b.data, a, b))
}

// Sub returns s - other.
func (s *Scalar) Sub(other *Scalar) *Scalar {
	a, b := s.node(), other.node()
	return wrap(newOp(OpSub, a.data-b.data, a, b))
}

// Mul returns s * other.
func (s *Scalar) Mul(other *Scalar) *Scalar {
	a, b := s.node(), other.node()
	return wrap(newOp(OpMul, a.data*b.data, a, b))
}

// Div returns s / other.
//
// Division follows IEEE-754: dividing by zero yields ±Inf or NaN, in both
// the forward value and the gradients. It never panics.
func (s *Scalar) Div(other *Scalar) *Scalar {
	a, b := s.node(), other.node()
	return wrap(newOp(OpDiv, a.data/b.data, a, b))
}

// Neg returns -s.
func (s *Scalar) Neg() *Scalar {
	a := s.node()
	return wrap(newOp(OpNeg, -a.data, a))
}

// Pow returns s raised to a constant exponent. The exponent is not part of
// the graph and receives no gradient.
func (s *Scalar) Pow(exponent float64) *Scalar {
	a := s.node()
	n := newOp(OpPow, math.Pow(a.data, exponent), a)
	n.exponent = exponent
	return wrap(n)
}

// ReLU returns max(0, s). The sub-gradient at exactly 0 is 0.
func (s *Scalar) ReLU() *Scalar {
	a := s.node()
	return wrap(newOp(OpReLU, math.Max(0, a.data), a))
}

// Exp returns e^s.
func (s *Scalar) Exp() *Scalar {
	a := s.node()
	return wrap(newOp(OpExp, math.Exp(a.data), a))
}

// Tanh returns the hyperbolic tangent of s.
func (s *Scalar) Tanh() *Scalar {
	a := s.node()
	return wrap(newOp(OpTanh, math.Tanh(a.data), a))
}

// Sigmoid returns 1 / (1 + e^-s).
func (s *Scalar) Sigmoid() *Scalar {
	a := s.node()
	return wrap(newOp(OpSigmoid, 1/(1+math.Exp(-a.data)), a))
}

// AddConst returns s + c.
func (s *Scalar) AddConst(c float64) *Scalar { return s.Add(Const(c)) }

// SubConst returns s - c.
func (s *Scalar) SubConst(c float64) *Scalar { return s.Sub(Const(c)) }

// MulConst returns s * c.
func (s *Scalar) MulConst(c float64) *Scalar { return s.Mul(Const(c)) }

// DivConst returns s / c.
func (s *Scalar) DivConst(c float64) *Scalar { return s.Div(Const(c)) }

// Sum returns the sum of xs as a single node. Every operand gets a local
// derivative of 1, so a sum over many terms adds one node rather than a
// chain of len(xs)-1 additions.
//
// Sum panics if xs is empty.
func Sum(xs ...*Scalar) *Scalar {
	if len(xs) == 0 {
		panic("autodiff: Sum of no operands")
	}
	operands := make([]*node, len(xs))
	total := 0.0
	for i, x := range xs {
		operands[i] = x.node()
		total += operands[i].data
	}
	return wrap(newOp(OpSum, total, operands...))
}
