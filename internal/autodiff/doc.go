// Package autodiff implements scalar reverse-mode automatic differentiation.
//
// Every arithmetic operation on a Scalar allocates a new graph node that
// remembers its operands and the kind of operation that produced it. Calling
// Backward on a result walks the graph once, in reverse topological order,
// and accumulates d(result)/d(x) into the Grad of every leaf x that requires
// a gradient.
//
// Example:
//
//	a := autodiff.New(1.0, true)
//	b := autodiff.New(2.0, true)
//	d := a.Add(b).ReLU().Exp()
//	d.Backward()
//	fmt.Println(d.Value(), b.Grad()) // 20.0855..., 20.0855...
//
// Gradients accumulate. Leaf gradients are never cleared by Backward, so
// training loops must call ZeroGrad on their parameters before each pass;
// running Backward twice without doing so doubles every leaf gradient.
//
// Graphs are not safe for concurrent use.
package autodiff
