package autodiff

import (
	"fmt"
	"math"
)

// Op identifies the operation that produced a node.
//
// The backward pass dispatches on Op instead of calling a stored closure, so
// a node carries only the data its local derivative needs.
type Op uint8

// Supported operations and their local derivatives.
const (
	OpLeaf    Op = iota // no operands
	OpAdd               // d(a+b)/da = 1, d(a+b)/db = 1
	OpSub               // d(a-b)/da = 1, d(a-b)/db = -1
	OpMul               // d(a*b)/da = b, d(a*b)/db = a
	OpDiv               // d(a/b)/da = 1/b, d(a/b)/db = -a/b²
	OpNeg               // d(-a)/da = -1
	OpPow               // d(aⁿ)/da = n·aⁿ⁻¹
	OpReLU              // 1 if a > 0, else 0
	OpExp               // d(eᵃ)/da = eᵃ
	OpTanh              // 1 - tanh²(a)
	OpSigmoid           // σ(a)·(1 - σ(a))
	OpSum               // 1 for every operand
)

var opNames = [...]string{
	OpLeaf:    "leaf",
	OpAdd:     "add",
	OpSub:     "sub",
	OpMul:     "mul",
	OpDiv:     "div",
	OpNeg:     "neg",
	OpPow:     "pow",
	OpReLU:    "relu",
	OpExp:     "exp",
	OpTanh:    "tanh",
	OpSigmoid: "sigmoid",
	OpSum:     "sum",
}

// String returns the lower-case operation name.
func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", uint8(op))
}

// propagate adds n.grad times the local derivative into every operand that
// requires a gradient. Frozen operands are never written.
//
//nolint:gocyclo // One case per operation kind.
func (n *node) propagate() {
	g := n.grad

	switch n.op {
	case OpLeaf:
		// Nothing to propagate.

	case OpAdd, OpSum:
		for _, o := range n.operands {
			o.accumulate(g)
		}

	case OpSub:
		a, b := n.operands[0], n.operands[1]
		a.accumulate(g)
		b.accumulate(-g)

	case OpMul:
		a, b := n.operands[0], n.operands[1]
		a.accumulate(g * b.data)
		b.accumulate(g * a.data)

	case OpDiv:
		a, b := n.operands[0], n.operands[1]
		a.accumulate(g / b.data)
		b.accumulate(-g * a.data / (b.data * b.data))

	case OpNeg:
		n.operands[0].accumulate(-g)

	case OpPow:
		a := n.operands[0]
		if n.exponent == 0 {
			return // a⁰ is constant; avoids 0·Inf at a = 0
		}
		a.accumulate(g * n.exponent * math.Pow(a.data, n.exponent-1))

	case OpReLU:
		a := n.operands[0]
		if a.data > 0 {
			a.accumulate(g)
		}

	case OpExp:
		n.operands[0].accumulate(g * n.data)

	case OpTanh:
		n.operands[0].accumulate(g * (1 - n.data*n.data))

	case OpSigmoid:
		n.operands[0].accumulate(g * n.data * (1 - n.data))

	default:
		panic(fmt.Sprintf("autodiff: no backward rule for %s", n.op))
	}
}

// accumulate adds delta to n.grad unless n is frozen.
func (n *node) accumulate(delta float64) {
	if n.requiresGrad {
		n.grad += delta
	}
}
