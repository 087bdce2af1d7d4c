// Package template renders a plugin's embedded template tree into the
// staged workspace tree and prunes files that belong to disabled options.
package template

import "errors"

// Sentinel errors for the template package.
var (
	// ErrTemplateNotFound indicates a referenced template file or directory does not exist.
	ErrTemplateNotFound = errors.New("template: not found")

	// ErrMissingTemplateKey indicates a template referenced a key the context does not define.
	ErrMissingTemplateKey = errors.New("template: missing key")

	// ErrUnexpandedToken indicates a token survived substitution.
	ErrUnexpandedToken = errors.New("template: unexpanded token")

	// ErrPathTraversal indicates a rendered path that escapes the destination.
	ErrPathTraversal = errors.New("template: path escapes destination")
)
