package cli

import "errors"

// Sentinel errors for CLI commands.
var (
	// ErrMissingArgument indicates a required positional argument is absent.
	ErrMissingArgument = errors.New("cli: missing argument")

	// ErrUnexpectedArgument indicates extra positional arguments.
	ErrUnexpectedArgument = errors.New("cli: unexpected argument")

	// ErrInvalidFlag indicates a flag that cannot be parsed.
	ErrInvalidFlag = errors.New("cli: invalid flag")

	// ErrUnknownPlugin indicates no plugin is installed under a name.
	ErrUnknownPlugin = errors.New("cli: unknown plugin")

	// ErrTargetFailed indicates a target reported a failed result.
	ErrTargetFailed = errors.New("cli: target failed")
)
