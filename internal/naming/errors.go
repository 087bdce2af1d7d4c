// Package naming derives the canonical identifiers a generator works with:
// the file-safe project name, its directory, the workspace project name,
// the project root under the workspace layout, and the parsed tag set.
package naming

import "errors"

// Sentinel errors for the naming package.
var (
	// ErrEmptyName indicates the name slugged down to nothing.
	ErrEmptyName = errors.New("naming: project name is empty")

	// ErrInvalidDirectory indicates a directory option that escapes the layout base.
	ErrInvalidDirectory = errors.New("naming: invalid project directory")
)
