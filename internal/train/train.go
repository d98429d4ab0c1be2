// Package train runs full-batch gradient descent over an nn.Module.
package train

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/born-ml/grad2d/internal/nn"
	"github.com/born-ml/grad2d/internal/optim"
	"github.com/born-ml/grad2d/internal/tensor"
	"k8s.io/klog/v2"
)

// ErrEmptyDataset is returned by Fit when there are no samples.
var ErrEmptyDataset = errors.New("empty dataset")

// Config controls the training loop.
type Config struct {
	Epochs    int     // Maximum number of epochs (default: 1000)
	LogEvery  int     // Log the loss every N epochs; 0 disables (default: 10)
	Tolerance float64 // Stop once |loss| < Tolerance (default: 0.001)
}

// DefaultConfig returns the defaults used by the CLI.
func DefaultConfig() Config {
	return Config{Epochs: 1000, LogEvery: 10, Tolerance: 0.001}
}

// Result summarizes a Fit call.
type Result struct {
	Epochs    int       // Epochs whose loss was evaluated
	FinalLoss float64   // Loss at the last evaluated epoch
	Converged bool      // Whether Tolerance was reached
	History   []float64 // Loss per epoch
}

// Trainer couples a model with a loss and an optimizer.
type Trainer struct {
	model     nn.Module
	loss      *nn.MSELoss
	optimizer optim.Optimizer
	config    Config
}

// NewTrainer creates a Trainer. The optimizer must have been built over
// model.Parameters().
func NewTrainer(model nn.Module, optimizer optim.Optimizer, config Config) *Trainer {
	if config.Epochs == 0 {
		config.Epochs = 1000
	}
	return &Trainer{
		model:     model,
		loss:      nn.NewMSELoss(),
		optimizer: optimizer,
		config:    config,
	}
}

// Fit trains on (xs, ys) for up to config.Epochs epochs.
//
// Each epoch runs a forward pass over every sample, evaluates the MSE
// loss, and stops early if it is below Tolerance. Otherwise it zeroes the
// gradients, backpropagates and applies one optimizer step.
//
// Cancellation is checked between epochs; the partial Result is returned
// alongside ctx.Err().
func (t *Trainer) Fit(ctx context.Context, xs, ys []*tensor.Tensor2D) (Result, error) {
	log := klog.FromContext(ctx)

	var result Result
	if len(xs) == 0 {
		return result, ErrEmptyDataset
	}
	if len(xs) != len(ys) {
		return result, fmt.Errorf("%w: %d inputs, %d targets", nn.ErrBatchSizeMismatch, len(xs), len(ys))
	}

	for epoch := range t.config.Epochs {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("stopped at epoch %d: %w", epoch, err)
		}

		preds, err := Predict(t.model, xs)
		if err != nil {
			return result, fmt.Errorf("epoch %d: %w", epoch, err)
		}

		loss, err := t.loss.Forward(preds, ys)
		if err != nil {
			return result, fmt.Errorf("epoch %d: %w", epoch, err)
		}

		value := loss.Value()
		result.Epochs = epoch + 1
		result.FinalLoss = value
		result.History = append(result.History, value)

		if math.Abs(value) < t.config.Tolerance {
			result.Converged = true
			log.Info("converged", "epoch", epoch, "loss", value)
			break
		}

		if t.config.LogEvery > 0 && epoch%t.config.LogEvery == 0 {
			log.Info("training", "epoch", epoch, "loss", value, "lr", t.optimizer.GetLR())
		} else {
			log.V(2).Info("training", "epoch", epoch, "loss", value)
		}

		t.optimizer.ZeroGrad()
		loss.Backward()
		t.optimizer.Step()
	}

	return result, nil
}

// Predict runs the model over every sample.
func Predict(model nn.Module, xs []*tensor.Tensor2D) ([]*tensor.Tensor2D, error) {
	preds := make([]*tensor.Tensor2D, len(xs))
	for i, x := range xs {
		out, err := model.Forward(x)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		preds[i] = out
	}
	return preds, nil
}
