package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"
)

// Write encodes params and header in .g2d format.
//
// Params, FormatVersion and (when zero) CreatedAt are filled in from the
// arguments; every other header field is written as given.
func Write[P NamedTensor](w io.Writer, params []P, header Header) error {
	header.FormatVersion = FormatVersion
	if header.CreatedAt.IsZero() {
		header.CreatedAt = time.Now().UTC()
	}

	var offset int64
	header.Params = make([]ParamMeta, 0, len(params))
	for _, p := range params {
		t := p.Tensor()
		size := int64(t.NumElements()) * ValueSize
		header.Params = append(header.Params, ParamMeta{
			Name:   p.Name(),
			Shape:  [2]int{t.Rows(), t.Cols()},
			Offset: offset,
			Size:   size,
		})
		offset += size
	}

	if err := ValidateHeader(&header, offset); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}

	data := make([]byte, 0, offset)
	for _, p := range params {
		for _, s := range p.Tensor().All() {
			data = binary.LittleEndian.AppendUint64(data, math.Float64bits(s.Value()))
		}
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}
	if len(headerJSON) > MaxHeaderSize {
		return ErrHeaderTooLarge
	}

	prefix := make([]byte, 0, prefixSize)
	prefix = append(prefix, MagicBytes...)
	prefix = binary.LittleEndian.AppendUint32(prefix, FormatVersion)
	prefix = binary.LittleEndian.AppendUint32(prefix, flagsFor(&header))
	prefix = binary.LittleEndian.AppendUint64(prefix, uint64(len(headerJSON)))

	sum := ComputeChecksum(headerJSON, data)
	for _, chunk := range [][]byte{prefix, headerJSON, data, sum[:]} {
		if _, err := w.Write(chunk); err != nil {
			return fmt.Errorf("failed to write checkpoint: %w", err)
		}
	}

	return nil
}

func flagsFor(h *Header) uint32 {
	var flags uint32
	if h.Checkpoint != nil {
		flags |= FlagHasCheckpoint
		if len(h.Checkpoint.OptimizerState) > 0 {
			flags |= FlagHasOptimizer
		}
	}
	if len(h.Metadata) > 0 {
		flags |= FlagHasMetadata
	}
	return flags
}

// SaveFile writes a .g2d file at path. The file is written to a temporary
// name in the same directory and renamed into place.
func SaveFile[P NamedTensor](path string, params []P, header Header) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if err := Write(tmp, params, header); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to rename %s to %s: %w", tmp.Name(), path, err)
	}
	return nil
}
