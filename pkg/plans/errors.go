package plans

import "errors"

// Common errors returned by the plans package.
var (
	// ErrInvalidOverrides is returned when the override file has invalid YAML syntax.
	ErrInvalidOverrides = errors.New("invalid YAML syntax in plan override file")
)
