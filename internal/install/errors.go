// Package install merges npm dependencies into the workspace package.json
// and runs the package manager once generators have finished.
package install

import "errors"

// Sentinel errors for the install package.
var (
	// ErrInvalidManifest indicates a package.json that is not valid JSON.
	ErrInvalidManifest = errors.New("install: invalid package manifest")

	// ErrModuleNotInstalled indicates the module resolver found no installed package.
	ErrModuleNotInstalled = errors.New("install: module not installed")

	// ErrUnknownPackageManager indicates an unsupported package manager name.
	ErrUnknownPackageManager = errors.New("install: unknown package manager")
)
