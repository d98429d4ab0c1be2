package autodiff

// topoSort returns every node reachable from root through operands that
// require gradients, in post-order: each node appears after all of its
// operands. Frozen nodes are not expanded; their requiresGrad is false only
// when none of their own operands require gradients, so nothing behind them
// can receive a contribution.
//
// The traversal is an iterative depth-first search, so deep graphs (long
// running sums, many MLP layers) cannot exhaust the goroutine stack. Each
// node is expanded exactly once, which keeps diamonds from being replayed
// twice and bounds the cost at O(V+E).
func topoSort(root *node) []*node {
	if !root.requiresGrad {
		return nil
	}

	type frame struct {
		n        *node
		expanded bool // operands already pushed; emit on next pop
	}

	order := make([]*node, 0, 64)
	visited := make(map[*node]struct{})
	stack := []frame{{n: root}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.expanded {
			order = append(order, f.n)
			continue
		}
		if _, seen := visited[f.n]; seen {
			continue
		}
		visited[f.n] = struct{}{}

		stack = append(stack, frame{n: f.n, expanded: true})
		// Push in reverse so operand 0 is explored first.
		for i := len(f.n.operands) - 1; i >= 0; i-- {
			o := f.n.operands[i]
			if !o.requiresGrad {
				continue
			}
			if _, seen := visited[o]; !seen {
				stack = append(stack, frame{n: o})
			}
		}
	}

	return order
}

// backward runs one reverse-mode pass seeded at root.
//
// Algorithm:
//  1. Topologically sort the requiring-grad ancestors of root.
//  2. Reset interior (non-leaf) gradients, then set root.grad = 1.
//  3. Walk the order from root towards the leaves, propagating each node's
//     gradient into its operands.
//
// Leaf gradients are never reset here. Running backward twice without
// ZeroGrad therefore adds the same contribution twice.
func backward(root *node) {
	order := topoSort(root)
	if len(order) == 0 {
		return
	}

	for _, n := range order {
		if !n.isLeaf() {
			n.grad = 0
		}
	}
	root.grad = 1

	for i := len(order) - 1; i >= 0; i-- {
		order[i].propagate()
	}
}
