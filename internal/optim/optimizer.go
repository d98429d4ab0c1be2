// Package optim implements optimization algorithms for training neural networks.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//
// Optimizers read the gradients that Backward left on each parameter's
// scalars and write the updated values back with SetValue.
//
// Example usage:
//
//	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.05})
//
//	for epoch := range epochs {
//	    optimizer.ZeroGrad()
//	    loss := computeLoss(model, data)
//	    loss.Backward()
//	    optimizer.Step()
//	}
package optim

import (
	"fmt"

	"github.com/born-ml/grad2d/internal/nn"
)

// Optimizer is the base interface for all optimization algorithms.
//
// All optimizers must implement:
//   - Step: Apply gradient updates to parameters
//   - ZeroGrad: Clear gradients before next iteration
//   - GetLR: Get current learning rate (for monitoring/scheduling)
type Optimizer interface {
	// Step applies one update to every parameter using the gradients
	// currently stored on its scalars.
	Step()

	// ZeroGrad clears all parameter gradients.
	//
	// Backward accumulates into leaf gradients, so this must run before
	// each backward pass.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float64
}

// Stateful is implemented by optimizers with per-parameter buffers that
// must survive a checkpoint round trip.
type Stateful interface {
	// StateDict exports internal buffers keyed by name.
	StateDict() map[string][]float64
	// LoadStateDict restores buffers produced by StateDict.
	LoadStateDict(state map[string][]float64) error
}

// Config is the base configuration for all optimizers.
type Config struct {
	LR float64 // Learning rate
}

// exportBuffers names per-parameter buffers "<prefix>.<param index>".
func exportBuffers(prefix string, params []*nn.Parameter, buffers map[*nn.Parameter][]float64, state map[string][]float64) {
	for i, p := range params {
		buf, ok := buffers[p]
		if !ok {
			continue // Not used in training yet
		}
		out := make([]float64, len(buf))
		copy(out, buf)
		state[fmt.Sprintf("%s.%d", prefix, i)] = out
	}
}

// importBuffers is the inverse of exportBuffers. Lengths are validated
// against the parameters.
func importBuffers(prefix string, params []*nn.Parameter, state map[string][]float64) (map[*nn.Parameter][]float64, error) {
	buffers := make(map[*nn.Parameter][]float64)
	for i, p := range params {
		key := fmt.Sprintf("%s.%d", prefix, i)
		buf, ok := state[key]
		if !ok {
			continue
		}
		if len(buf) != p.Tensor().NumElements() {
			return nil, fmt.Errorf("%s length mismatch for parameter %q: expected %d, got %d",
				key, p.Name(), p.Tensor().NumElements(), len(buf))
		}
		cp := make([]float64, len(buf))
		copy(cp, buf)
		buffers[p] = cp
	}
	return buffers, nil
}

var (
	_ Optimizer = (*SGD)(nil)
	_ Optimizer = (*Adam)(nil)
	_ Stateful  = (*SGD)(nil)
	_ Stateful  = (*Adam)(nil)
)
