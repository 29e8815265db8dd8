package sticker

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode reports input that is empty, truncated or in an unsupported format.
	ErrDecode = errors.New("sticker: decode failed")

	// ErrInvalidMode reports a raster that does not satisfy the NRGBA layout the
	// pipeline requires. Normalize always produces a valid raster, so seeing this
	// error means a caller bypassed it.
	ErrInvalidMode = errors.New("sticker: raster is not normalized NRGBA")

	// ErrEncode reports a failure serializing the output raster.
	ErrEncode = errors.New("sticker: encode failed")

	// ErrConfig reports an out-of-range configuration value.
	ErrConfig = errors.New("sticker: invalid config")
)

// ConfigError describes a single invalid Config field.
type ConfigError struct {
	Field  string
	Value  interface{}
	Reason string
}

// Error reports the field, its value and the violated constraint.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("sticker: invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Is makes errors.Is(err, ErrConfig) true for every ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
