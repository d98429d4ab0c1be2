package nn

import (
	"math/rand/v2"

	"github.com/born-ml/grad2d/internal/tensor"
)

// NewRand returns a seeded generator for weight initialization.
//
// The same seed always yields the same network, which keeps training runs
// and tests reproducible.
func NewRand(seed uint64) *rand.Rand {
	//nolint:gosec // Weight initialization is not security-critical.
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// xavierColumn initializes an in×1 weight column drawn from
// U(-1, 1) / sqrt(in).
func xavierColumn(in int, src tensor.RandSource) *tensor.Tensor2D {
	return tensor.Xavier(in, 1, true, src)
}
