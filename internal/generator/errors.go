// Package generator runs code generators against a staged workspace tree.
// A generator stages its writes; the runner validates options, formats
// JSON output, then commits the tree or, on failure, discards it.
package generator

import "errors"

// Sentinel errors for the generator package.
var (
	// ErrUnknownGenerator indicates no generator is registered under an id.
	ErrUnknownGenerator = errors.New("generator: unknown generator")

	// ErrDuplicateGenerator indicates an id was registered twice.
	ErrDuplicateGenerator = errors.New("generator: generator already registered")
)
