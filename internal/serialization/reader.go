package serialization

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/born-ml/grad2d/internal/tensor"
)

// Read decodes a .g2d stream, verifying its checksum and parameter layout.
//
// The header is parsed and validated first; Read then consumes exactly the
// data section it describes plus the checksum.
func Read(r io.Reader) (*Checkpoint, error) {
	prefix := make([]byte, prefixSize)
	if _, err := io.ReadFull(r, prefix); err != nil {
		return nil, fmt.Errorf("failed to read file prefix: %w", ErrTruncated)
	}
	if string(prefix[:4]) != MagicBytes {
		return nil, ErrInvalidMagic
	}

	version := binary.LittleEndian.Uint32(prefix[4:8])
	if version != FormatVersion {
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, version, FormatVersion)
	}
	flags := binary.LittleEndian.Uint32(prefix[8:12])

	headerSize := binary.LittleEndian.Uint64(prefix[12:20])
	if headerSize > MaxHeaderSize {
		return nil, ErrHeaderTooLarge
	}

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", ErrTruncated)
	}

	var header Header
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, fmt.Errorf("failed to parse header JSON: %w", err)
	}
	dataSize, err := DataSize(header.Params)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := ValidateHeader(&header, dataSize); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// One byte past the checksum is enough to detect trailing data.
	want := dataSize + ChecksumSize
	rest, err := io.ReadAll(io.LimitReader(r, want+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read parameter data: %w", err)
	}
	switch {
	case int64(len(rest)) < want:
		return nil, fmt.Errorf("parameter data: %w", ErrTruncated)
	case int64(len(rest)) > want:
		return nil, ErrTrailingData
	}
	data := rest[:dataSize]

	var stored [32]byte
	copy(stored[:], rest[dataSize:])
	if err := ValidateChecksum(ComputeChecksum(headerJSON, data), stored); err != nil {
		return nil, err
	}

	values := make(map[string][]float64, len(header.Params))
	for _, p := range header.Params {
		raw := data[p.Offset : p.Offset+p.Size]
		v := make([]float64, p.Size/ValueSize)
		for i := range v {
			v[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*ValueSize:]))
		}
		values[p.Name] = v
	}

	return &Checkpoint{Header: header, Flags: flags, values: values}, nil
}

// LoadFile reads a .g2d file from disk.
func LoadFile(path string) (*Checkpoint, error) {
	//nolint:gosec // G304: path comes from the caller, which is expected for model loading
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only

	c, err := Read(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Apply copies checkpoint values into live parameters with SetValue.
//
// Every parameter must be present in the checkpoint with the same shape,
// and the checkpoint must not carry extra parameters. Graph structure and
// gradients are left untouched.
func Apply[P NamedTensor](c *Checkpoint, params []P) error {
	if len(params) != len(c.Header.Params) {
		return fmt.Errorf("%w: model has %d, checkpoint has %d", ErrParameterCount, len(params), len(c.Header.Params))
	}

	metas := make(map[string]ParamMeta, len(c.Header.Params))
	for _, m := range c.Header.Params {
		metas[m.Name] = m
	}

	// Validate everything before mutating anything.
	for _, p := range params {
		m, ok := metas[p.Name()]
		if !ok {
			return &ValidationError{Type: "missing_param", Param: p.Name(), Details: "not found in checkpoint"}
		}
		want := tensor.Shape{Rows: m.Shape[0], Cols: m.Shape[1]}
		if got := p.Tensor().Shape(); !got.Equal(want) {
			return &ValidationError{
				Type:    "shape_mismatch",
				Param:   p.Name(),
				Details: fmt.Sprintf("model %s, checkpoint %s", got, want),
			}
		}
	}

	for _, p := range params {
		values := c.values[p.Name()]
		for i, s := range p.Tensor().All() {
			s.SetValue(values[i])
		}
	}
	return nil
}
