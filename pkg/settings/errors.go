package settings

import "errors"

// Common errors returned by the settings package.
var (
	// ErrNotFound is returned when the settings document does not exist.
	ErrNotFound = errors.New("settings document not found")

	// ErrCorrupt is returned when the settings document is not valid JSON.
	ErrCorrupt = errors.New("settings document is not valid JSON")
)
