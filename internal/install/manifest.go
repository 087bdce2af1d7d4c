package install

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"slices"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/nxplus/nxplus/internal/defs"
	"github.com/nxplus/nxplus/internal/workspace"
)

// Dependencies maps npm package names to semver ranges.
type Dependencies map[string]string

// AddDependencies adds the given runtime and dev dependencies to the
// workspace package.json. Packages already listed in either section keep
// their existing range; nothing is removed or downgraded. The returned
// Task installs the result and is marked changed only if an entry was added.
func AddDependencies(tree *workspace.Tree, deps, devDeps Dependencies) (Task, error) {
	data, err := readManifest(tree)
	if err != nil {
		return Task{}, err
	}

	added := 0
	for _, section := range []struct {
		key  string
		deps Dependencies
	}{
		{"dependencies", deps},
		{"devDependencies", devDeps},
	} {
		for _, name := range slices.Sorted(maps.Keys(section.deps)) {
			if isListed(data, name) {
				continue
			}
			data, err = sjson.SetBytes(data, section.key+"."+workspace.EscapeKey(name), section.deps[name])
			if err != nil {
				return Task{}, fmt.Errorf("set %s %s: %w", section.key, name, err)
			}
			added++
		}
	}

	task := Task{Root: tree.Root(), PackageManager: DetectPackageManager(tree), Changed: added > 0}
	if added == 0 {
		return task, nil
	}
	if err := tree.Write(defs.PackageJSON, pretty.Pretty(data)); err != nil {
		return Task{}, err
	}
	return task, nil
}

func isListed(data []byte, name string) bool {
	key := workspace.EscapeKey(name)
	return gjson.GetBytes(data, "dependencies."+key).Exists() ||
		gjson.GetBytes(data, "devDependencies."+key).Exists()
}

// EnsureScript adds an npm script if the manifest has none by that name.
// An existing script with a different command is left alone and reported
// through logger. It reports whether the script was written.
func EnsureScript(tree *workspace.Tree, name, command string, logger *slog.Logger) (bool, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	data, err := readManifest(tree)
	if err != nil {
		return false, err
	}

	key := "scripts." + workspace.EscapeKey(name)
	if existing := gjson.GetBytes(data, key); existing.Exists() {
		if existing.String() != command {
			logger.Warn("package.json script differs, leaving it unchanged",
				"script", name, "existing", existing.String(), "wanted", command)
		}
		return false, nil
	}

	data, err = sjson.SetBytes(data, key, command)
	if err != nil {
		return false, fmt.Errorf("set script %s: %w", name, err)
	}
	return true, tree.Write(defs.PackageJSON, pretty.Pretty(data))
}

// readManifest returns package.json from the tree, or a minimal document
// when the workspace has none yet.
func readManifest(tree *workspace.Tree) ([]byte, error) {
	data, err := tree.Read(defs.PackageJSON)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []byte(`{"private":true}`), nil
		}
		return nil, fmt.Errorf("read %s: %w", defs.PackageJSON, err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidManifest, defs.PackageJSON)
	}
	return data, nil
}
