package analyzer

import "errors"

// Common errors returned by the analyzer package.
var (
	// ErrNotInstalled is returned when the analyzer binary is not on PATH.
	ErrNotInstalled = errors.New("analyzer not installed")

	// ErrInvalidOutput is returned when the analyzer output cannot be decoded.
	ErrInvalidOutput = errors.New("invalid analyzer output")
)
