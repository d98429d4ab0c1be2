package autodiff

// node is a vertex of the computation graph.
//
// Structure (op, operands, exponent) is fixed at construction. Only data and
// grad change afterwards: data through SetValue, grad through the backward
// pass and ZeroGrad.
type node struct {
	data         float64 // Forward value
	grad         float64 // Accumulated d(terminal)/d(node)
	requiresGrad bool    // False for frozen leaves and nodes built only from them
	op           Op      // Operation that produced this node (OpLeaf for leaves)
	operands     []*node // Direct predecessors, in operand order
	exponent     float64 // Only meaningful for OpPow
}

// newLeaf creates a node with no operands.
func newLeaf(value float64, requiresGrad bool) *node {
	return &node{
		data:         value,
		requiresGrad: requiresGrad,
		op:           OpLeaf,
	}
}

// newOp creates a node produced by op from operands.
// requiresGrad is the OR of the operands' flags.
func newOp(op Op, value float64, operands ...*node) *node {
	requiresGrad := false
	for _, o := range operands {
		if o.requiresGrad {
			requiresGrad = true
			break
		}
	}
	return &node{
		data:         value,
		requiresGrad: requiresGrad,
		op:           op,
		operands:     operands,
	}
}

// isLeaf reports whether n was supplied directly rather than computed.
func (n *node) isLeaf() bool {
	return n.op == OpLeaf
}
