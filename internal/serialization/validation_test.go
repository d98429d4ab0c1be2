package serialization

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateParamOffsets(t *testing.T) {
	tests := []struct {
		name     string
		params   []ParamMeta
		dataSize int64
		wantType string
	}{
		{
			name: "valid",
			params: []ParamMeta{
				{Name: "b", Offset: 16, Size: 8},
				{Name: "a", Offset: 0, Size: 16},
			},
			dataSize: 24,
		},
		{
			name:     "negative",
			params:   []ParamMeta{{Name: "a", Offset: -8, Size: 8}},
			dataSize: 8,
			wantType: "negative_offset",
		},
		{
			name:     "out of bounds",
			params:   []ParamMeta{{Name: "a", Offset: 8, Size: 16}},
			dataSize: 16,
			wantType: "out_of_bounds",
		},
		{
			name:     "offset plus size overflows",
			params:   []ParamMeta{{Name: "a", Offset: math.MaxInt64 - 3, Size: 8}},
			dataSize: 8,
			wantType: "out_of_bounds",
		},
		{
			name: "overlap",
			params: []ParamMeta{
				{Name: "a", Offset: 0, Size: 16},
				{Name: "b", Offset: 8, Size: 8},
			},
			dataSize: 24,
			wantType: "offset_overlap",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateParamOffsets(tt.params, tt.dataSize)
			if tt.wantType == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantType, verr.Type)
		})
	}
}

func TestValidateHeader(t *testing.T) {
	ok := Header{Params: []ParamMeta{{Name: "w", Shape: [2]int{2, 3}, Size: 48}}}
	assert.NoError(t, ValidateHeader(&ok, 48))

	badSize := Header{Params: []ParamMeta{{Name: "w", Shape: [2]int{2, 3}, Size: 40}}}
	assert.ErrorContains(t, ValidateHeader(&badSize, 48), "size_mismatch")

	badShape := Header{Params: []ParamMeta{{Name: "w", Shape: [2]int{0, 3}}}}
	assert.ErrorContains(t, ValidateHeader(&badShape, 0), "invalid_shape")

	huge := Header{Params: []ParamMeta{{Name: "w", Shape: [2]int{math.MaxInt32, math.MaxInt32}, Size: 8}}}
	assert.ErrorContains(t, ValidateHeader(&huge, 8), "param_too_large")

	assert.Error(t, ValidateParamName(""))
	assert.Error(t, ValidateParamName("bad\x00name"))
	assert.NoError(t, ValidateParamName("layer.0.neuron.1.weight"))
}

func TestDataSize(t *testing.T) {
	size, err := DataSize([]ParamMeta{{Name: "a", Size: 16}, {Name: "b", Size: 8}})
	require.NoError(t, err)
	assert.Equal(t, int64(24), size)

	for _, bad := range []int64{-8, MaxParamElements*ValueSize + 1, math.MaxInt64} {
		_, err := DataSize([]ParamMeta{{Name: "a", Size: bad}})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "invalid_size", verr.Type)
	}
}

func TestValidationError_Error(t *testing.T) {
	e := &ValidationError{Type: "offset_overlap", Param: "a", Param2: "b", Details: "x"}
	assert.Equal(t, `offset_overlap: params "a" and "b": x`, e.Error())
	e = &ValidationError{Type: "invalid_name", Details: "empty parameter name"}
	assert.Equal(t, "invalid_name: empty parameter name", e.Error())
}
