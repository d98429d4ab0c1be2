package serialization

import (
	"time"

	"github.com/born-ml/grad2d/internal/tensor"
)

// Format constants.
const (
	MagicBytes    = "G2D1"
	FormatVersion = 1
	ChecksumSize  = 32 // SHA-256
	ValueSize     = 8  // float64
	prefixSize    = 4 + 4 + 4 + 8
)

// Flags for the .g2d format.
const (
	FlagHasCheckpoint uint32 = 1 << 0 // bit 0: training metadata included
	FlagHasOptimizer  uint32 = 1 << 1 // bit 1: optimizer state included
	FlagHasMetadata   uint32 = 1 << 2 // bit 2: custom metadata included
)

// NamedTensor is a tensor with a stable name. *nn.Parameter implements it.
type NamedTensor interface {
	Name() string
	Tensor() *tensor.Tensor2D
}

// Header represents the JSON header in a .g2d file.
type Header struct {
	FormatVersion int               `json:"format_version"`
	ModelType     string            `json:"model_type"` // e.g. "MLP"
	CreatedAt     time.Time         `json:"created_at"`
	Params        []ParamMeta       `json:"params"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Checkpoint    *CheckpointMeta   `json:"checkpoint,omitempty"`
}

// CheckpointMeta contains training state information for checkpoints.
type CheckpointMeta struct {
	Epoch          int                  `json:"epoch"`
	Loss           float64              `json:"loss"`
	OptimizerType  string               `json:"optimizer_type"` // "SGD", "Adam"
	LR             float64              `json:"lr"`
	OptimizerState map[string][]float64 `json:"optimizer_state,omitempty"`
}

// ParamMeta describes one parameter in the data section.
type ParamMeta struct {
	Name   string `json:"name"`   // e.g. "layer.0.neuron.1.weight"
	Shape  [2]int `json:"shape"`  // rows, cols
	Offset int64  `json:"offset"` // bytes from start of parameter data
	Size   int64  `json:"size"`   // bytes
}

// Checkpoint is a decoded .g2d file.
type Checkpoint struct {
	Header Header
	Flags  uint32
	values map[string][]float64
}

// Values returns the row-major values stored under name.
func (c *Checkpoint) Values(name string) ([]float64, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Names returns parameter names in file order.
func (c *Checkpoint) Names() []string {
	names := make([]string, len(c.Header.Params))
	for i, p := range c.Header.Params {
		names[i] = p.Name
	}
	return names
}
