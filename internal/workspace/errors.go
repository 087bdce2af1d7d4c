// Package workspace implements the workspace side of the plugin contract:
// a staged file tree that is committed only after a generator succeeds,
// the workspace.json project registry, the nx.json layout, and target
// option resolution.
package workspace

import (
	"errors"
	"fmt"
)

// Sentinel errors for the workspace package.
var (
	// ErrDuplicateProject indicates a project name or root is already registered.
	ErrDuplicateProject = errors.New("workspace: project already exists")

	// ErrProjectNotFound indicates the named project is not registered.
	ErrProjectNotFound = errors.New("workspace: project not found")

	// ErrTargetNotFound indicates the project has no target with the given name.
	ErrTargetNotFound = errors.New("workspace: target not found")

	// ErrConfigurationNotFound indicates the target has no configuration with the given name.
	ErrConfigurationNotFound = errors.New("workspace: configuration not found")

	// ErrInvalidTarget indicates a malformed project:target[:configuration] string.
	ErrInvalidTarget = errors.New("workspace: invalid target string")

	// ErrPathTraversal indicates a path that escapes the workspace root.
	ErrPathTraversal = errors.New("workspace: path escapes workspace root")

	// ErrNotInWorkspace indicates no workspace.json or nx.json was found.
	ErrNotInWorkspace = errors.New("workspace: not inside a workspace")

	// ErrInvalidDocument indicates a workspace JSON document could not be parsed.
	ErrInvalidDocument = errors.New("workspace: invalid JSON document")
)

// DuplicateProjectError reports which existing project collides with a
// registration attempt.
type DuplicateProjectError struct {
	Name     string
	Root     string
	Existing string
}

// Error implements the error interface.
func (e *DuplicateProjectError) Error() string {
	if e.Existing != e.Name {
		return fmt.Sprintf("cannot register project %q: root %q is already used by project %q", e.Name, e.Root, e.Existing)
	}
	return fmt.Sprintf("cannot register project %q: a project with that name already exists", e.Name)
}

// Unwrap returns ErrDuplicateProject for errors.Is support.
func (e *DuplicateProjectError) Unwrap() error {
	return ErrDuplicateProject
}
