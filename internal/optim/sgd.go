package optim

import (
	"github.com/born-ml/grad2d/internal/nn"
)

// SGD implements Stochastic Gradient Descent optimizer with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// Example:
//
//	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{
//	    LR:       0.05,
//	    Momentum: 0.9,
//	})
type SGD struct {
	params     []*nn.Parameter
	lr         float64
	momentum   float64
	velocities map[*nn.Parameter][]float64
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer.
func NewSGD(params []*nn.Parameter, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}

	return &SGD{
		params:     params,
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make(map[*nn.Parameter][]float64),
	}
}

// Step performs a single optimization step.
func (s *SGD) Step() {
	for _, param := range s.params {
		if s.momentum == 0 {
			s.updateParameter(param)
		} else {
			s.updateParameterWithMomentum(param)
		}
	}
}

// updateParameter performs simple SGD update without momentum.
func (s *SGD) updateParameter(param *nn.Parameter) {
	for _, p := range param.Tensor().All() {
		p.SetValue(p.Value() - s.lr*p.Grad())
	}
}

// updateParameterWithMomentum performs SGD update with momentum.
func (s *SGD) updateParameterWithMomentum(param *nn.Parameter) {
	velocity, exists := s.velocities[param]
	if !exists {
		velocity = make([]float64, param.Tensor().NumElements())
		s.velocities[param] = velocity
	}

	for i, p := range param.Tensor().All() {
		velocity[i] = s.momentum*velocity[i] + p.Grad()
		p.SetValue(p.Value() - s.lr*velocity[i])
	}
}

// ZeroGrad clears gradients for all parameters.
func (s *SGD) ZeroGrad() {
	nn.ZeroGrad(s.params)
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float64 {
	return s.lr
}

// SetLR updates the learning rate.
func (s *SGD) SetLR(lr float64) {
	s.lr = lr
}

// StateDict returns the velocity buffers as "velocity.{param_index}".
// Without momentum it returns an empty map.
func (s *SGD) StateDict() map[string][]float64 {
	state := make(map[string][]float64)
	if s.momentum == 0 {
		return state
	}
	exportBuffers("velocity", s.params, s.velocities, state)
	return state
}

// LoadStateDict restores velocity buffers. It is a no-op without momentum.
func (s *SGD) LoadStateDict(state map[string][]float64) error {
	if s.momentum == 0 {
		return nil
	}
	velocities, err := importBuffers("velocity", s.params, state)
	if err != nil {
		return err
	}
	s.velocities = velocities
	return nil
}
