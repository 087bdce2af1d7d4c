// Package executor defines the contract between the host and a target's
// executor: options in, a lifetime handle out, results streamed on the
// handle until it completes or is stopped.
package executor

import "errors"

// Sentinel errors for the executor package.
var (
	// ErrUnknownExecutor indicates no executor is registered under an id.
	ErrUnknownExecutor = errors.New("executor: unknown executor")

	// ErrDuplicateExecutor indicates an id was registered twice.
	ErrDuplicateExecutor = errors.New("executor: executor already registered")

	// ErrUnsupportedConfig indicates a framework-native config file that
	// would conflict with workspace-managed options.
	ErrUnsupportedConfig = errors.New("executor: unsupported native config file")

	// ErrToolNotFound indicates the framework CLI could not be located.
	ErrToolNotFound = errors.New("executor: tool not found")

	// ErrNoServerURL indicates a dev server exited before printing its address.
	ErrNoServerURL = errors.New("executor: server exited before reporting a URL")
)
