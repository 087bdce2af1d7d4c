package template

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/nxplus/nxplus/internal/workspace"
)

// PruneRule removes files that belong to a disabled option. Patterns are
// doublestar globs relative to the project root.
type PruneRule struct {
	Disabled bool
	Patterns []string
}

// Prune deletes the staged files under dest that match a disabled rule and
// returns their workspace-relative paths. Generating everything and pruning
// afterwards keeps one template tree for every option combination.
func Prune(tree *workspace.Tree, dest string, rules []PruneRule) ([]string, error) {
	for _, r := range rules {
		for _, p := range r.Patterns {
			if !doublestar.ValidatePattern(p) {
				return nil, fmt.Errorf("prune pattern %q: %w", p, doublestar.ErrBadPattern)
			}
		}
	}

	var removed []string
	for _, file := range tree.StagedFiles(dest) {
		rel := strings.TrimPrefix(file, path.Clean(dest)+"/")
		if matchesDisabled(rel, rules) {
			tree.Delete(file)
			removed = append(removed, file)
		}
	}
	return removed, nil
}

func matchesDisabled(rel string, rules []PruneRule) bool {
	for _, r := range rules {
		if !r.Disabled {
			continue
		}
		for _, p := range r.Patterns {
			if ok, _ := doublestar.Match(p, rel); ok {
				return true
			}
		}
	}
	return false
}
