package nn

import (
	"errors"
	"fmt"

	"github.com/born-ml/grad2d/internal/autodiff"
	"github.com/born-ml/grad2d/internal/tensor"
)

// ErrBatchSizeMismatch is returned when predictions and targets differ in
// count.
var ErrBatchSizeMismatch = errors.New("predictions and targets differ in length")

// MSELoss computes Mean Squared Error loss.
//
// Loss = mean((predictions - targets)²) over every element of every pair.
//
// Example:
//
//	mse := nn.NewMSELoss()
//	loss, err := mse.Forward(preds, targets)
//	loss.Backward()
type MSELoss struct{}

// NewMSELoss creates a new MSE loss function.
func NewMSELoss() *MSELoss {
	return &MSELoss{}
}

// Forward computes the MSE loss.
//
// Parameters:
//   - predictions: Model outputs, one tensor per sample
//   - targets: Ground truth, same count and shapes as predictions
//
// Returns a scalar node that can be differentiated with Backward.
func (m *MSELoss) Forward(predictions, targets []*tensor.Tensor2D) (*autodiff.Scalar, error) {
	if len(predictions) != len(targets) {
		return nil, fmt.Errorf("mse: %w: %d vs %d", ErrBatchSizeMismatch, len(predictions), len(targets))
	}
	if len(predictions) == 0 {
		return nil, fmt.Errorf("mse: %w: empty batch", ErrBatchSizeMismatch)
	}

	var terms []*autodiff.Scalar
	for i := range predictions {
		diff, err := predictions[i].Sub(targets[i])
		if err != nil {
			return nil, fmt.Errorf("mse: sample %d: %w", i, err)
		}
		terms = append(terms, diff.Pow(2).Elements()...)
	}

	return autodiff.Sum(terms...).DivConst(float64(len(terms))), nil
}

// Parameters returns nil (loss functions have no trainable parameters).
func (m *MSELoss) Parameters() []*Parameter {
	return nil
}
