package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nxplus/nxplus/internal/defs"
)

// FindRoot locates the workspace root by searching start and its parents
// for workspace.json or nx.json. It returns an absolute path.
func FindRoot(start string) (string, error) {
	absDir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}

	for {
		for _, marker := range []string{defs.WorkspaceJSON, defs.NxJSON} {
			if info, err := os.Stat(filepath.Join(absDir, marker)); err == nil && !info.IsDir() {
				return absDir, nil
			}
		}

		parent := filepath.Dir(absDir)
		if parent == absDir {
			return "", fmt.Errorf("%w: no %s or %s in %s or any parent directory", ErrNotInWorkspace, defs.WorkspaceJSON, defs.NxJSON, start)
		}
		absDir = parent
	}
}

// FindRootFromCwd is FindRoot starting at the current working directory.
func FindRootFromCwd() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return FindRoot(dir)
}
