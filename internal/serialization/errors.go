package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrChecksumMismatch   = errors.New("checksum mismatch: file may be corrupted")
	ErrInvalidMagic       = errors.New("invalid magic bytes")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrHeaderTooLarge     = errors.New("header exceeds maximum size")
	ErrTruncated          = errors.New("file truncated")
	ErrParameterCount     = errors.New("parameter count mismatch")
	ErrTrailingData       = errors.New("unexpected data after checksum")
)

// ValidationError provides detailed information about validation failures.
type ValidationError struct {
	Type    string // e.g. "offset_overlap", "shape_mismatch"
	Param   string // Primary parameter name involved
	Param2  string // Secondary parameter name (for overlap errors)
	Details string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Param2 != "" {
		return fmt.Sprintf("%s: params %q and %q: %s", e.Type, e.Param, e.Param2, e.Details)
	}
	if e.Param != "" {
		return fmt.Sprintf("%s: param %q: %s", e.Type, e.Param, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Details)
}
