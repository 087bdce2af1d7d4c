package generator

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/nxplus/nxplus/internal/workspace"
)

// diffContext is the number of unchanged lines shown around each hunk.
const diffContext = 3

// Diff renders the tree's staged changes as one unified diff, files in
// path order. Created files diff against /dev/null.
func Diff(tree *workspace.Tree) (string, error) {
	var b strings.Builder
	for _, c := range tree.Changes() {
		before, err := tree.ReadOriginal(c.Path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("diff %s: %w", c.Path, err)
		}

		from, to := "a/"+c.Path, "b/"+c.Path
		switch c.Type {
		case workspace.ChangeCreate:
			from = "/dev/null"
		case workspace.ChangeDelete:
			to = "/dev/null"
		}

		out, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        splitLines(before),
			B:        splitLines(c.Content),
			FromFile: from,
			ToFile:   to,
			Context:  diffContext,
		})
		if err != nil {
			return "", fmt.Errorf("diff %s: %w", c.Path, err)
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

func splitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	return difflib.SplitLines(string(data))
}
