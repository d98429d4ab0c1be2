package serialization

import (
	"fmt"
	"slices"
	"strings"

	"github.com/born-ml/grad2d/internal/tensor"
)

// Validation limits for resource protection.
const (
	MaxHeaderSize    = 16 * 1024 * 1024 // 16MB
	MaxParamCount    = 100_000
	MaxParamNameLen  = 1024
	MaxParamElements = 1 << 28
)

// ValidateParamOffsets checks for overlapping regions and out-of-bounds
// access in the data section.
func ValidateParamOffsets(params []ParamMeta, dataSize int64) error {
	sorted := slices.Clone(params)
	slices.SortFunc(sorted, func(a, b ParamMeta) int {
		switch {
		case a.Offset < b.Offset:
			return -1
		case a.Offset > b.Offset:
			return 1
		}
		return 0
	})

	for i, p := range sorted {
		if p.Offset < 0 || p.Size < 0 {
			return &ValidationError{
				Type:    "negative_offset",
				Param:   p.Name,
				Details: fmt.Sprintf("offset=%d, size=%d", p.Offset, p.Size),
			}
		}

		if p.Size > dataSize || p.Offset > dataSize-p.Size {
			return &ValidationError{
				Type:    "out_of_bounds",
				Param:   p.Name,
				Details: fmt.Sprintf("offset %d + size %d > data_size %d", p.Offset, p.Size, dataSize),
			}
		}

		if i < len(sorted)-1 {
			next := sorted[i+1]
			if p.Offset+p.Size > next.Offset {
				return &ValidationError{
					Type:   "offset_overlap",
					Param:  p.Name,
					Param2: next.Name,
					Details: fmt.Sprintf("regions [%d-%d] and [%d-%d] overlap",
						p.Offset, p.Offset+p.Size, next.Offset, next.Offset+next.Size),
				}
			}
		}
	}

	return nil
}

// ValidateParamName rejects empty, oversized and control-character names.
func ValidateParamName(name string) error {
	if name == "" {
		return &ValidationError{Type: "invalid_name", Details: "empty parameter name"}
	}
	if len(name) > MaxParamNameLen {
		return &ValidationError{
			Type:    "name_too_long",
			Param:   name,
			Details: fmt.Sprintf("length %d > max %d", len(name), MaxParamNameLen),
		}
	}
	if strings.ContainsFunc(name, func(r rune) bool { return r < 0x20 }) {
		return &ValidationError{
			Type:    "invalid_name",
			Param:   name,
			Details: "contains control character",
		}
	}
	return nil
}

// DataSize returns the data section size implied by params: the sum of
// their sizes, each bounded by MaxParamElements values.
func DataSize(params []ParamMeta) (int64, error) {
	if len(params) > MaxParamCount {
		return 0, &ValidationError{
			Type:    "too_many_params",
			Details: fmt.Sprintf("got %d, max %d", len(params), MaxParamCount),
		}
	}

	var total int64
	for _, p := range params {
		if p.Size < 0 || p.Size > MaxParamElements*ValueSize {
			return 0, &ValidationError{
				Type:    "invalid_size",
				Param:   p.Name,
				Details: fmt.Sprintf("size %d outside [0, %d]", p.Size, MaxParamElements*ValueSize),
			}
		}
		total += p.Size
	}
	return total, nil
}

// ValidateHeader checks parameter metadata against the data section size.
func ValidateHeader(h *Header, dataSize int64) error {
	if len(h.Params) > MaxParamCount {
		return &ValidationError{
			Type:    "too_many_params",
			Details: fmt.Sprintf("got %d, max %d", len(h.Params), MaxParamCount),
		}
	}

	seen := make(map[string]bool, len(h.Params))
	for _, p := range h.Params {
		if err := ValidateParamName(p.Name); err != nil {
			return err
		}
		if seen[p.Name] {
			return &ValidationError{Type: "duplicate_name", Param: p.Name, Details: "name appears more than once"}
		}
		seen[p.Name] = true

		shape := tensor.Shape{Rows: p.Shape[0], Cols: p.Shape[1]}
		if err := shape.Validate(); err != nil {
			return &ValidationError{Type: "invalid_shape", Param: p.Name, Details: err.Error()}
		}
		if shape.Rows > MaxParamElements/shape.Cols {
			return &ValidationError{
				Type:    "param_too_large",
				Param:   p.Name,
				Details: fmt.Sprintf("shape %s exceeds %d elements", shape, MaxParamElements),
			}
		}
		if want := int64(shape.NumElements()) * ValueSize; p.Size != want {
			return &ValidationError{
				Type:    "size_mismatch",
				Param:   p.Name,
				Details: fmt.Sprintf("shape %s needs %d bytes, header says %d", shape, want, p.Size),
			}
		}
	}

	return ValidateParamOffsets(h.Params, dataSize)
}
