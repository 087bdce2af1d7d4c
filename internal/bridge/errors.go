// Package bridge adapts workspace target options into a framework's native
// configuration through ordered pipelines of small patches. Each patch
// declares the configuration sections it reads and writes and touches only
// those.
package bridge

import "errors"

// Sentinel errors for the bridge package.
var (
	// ErrPatchOrder indicates a pipeline whose declared order violates a
	// read/write dependency, or that names a patch twice.
	ErrPatchOrder = errors.New("bridge: invalid patch order")

	// ErrInvalidOption indicates an option value a patch cannot translate.
	ErrInvalidOption = errors.New("bridge: invalid option")
)
