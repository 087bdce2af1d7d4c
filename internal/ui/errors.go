// Package ui holds the terminal presentation layer of the CLI: styles,
// prompts, the install spinner and markdown rendering. Every component
// degrades to plain line output when no terminal is attached.
package ui

import "errors"

// Sentinel errors for the ui package.
var (
	// ErrHeadless indicates a prompt was needed without a terminal.
	ErrHeadless = errors.New("ui: input required but no terminal is attached")

	// ErrCancelled indicates the user aborted a prompt.
	ErrCancelled = errors.New("ui: cancelled by user")
)
