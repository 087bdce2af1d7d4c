package workspace

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/nxplus/nxplus/internal/defs"
)

// Layout holds the base directories for applications and libraries.
type Layout struct {
	AppsDir string
	LibsDir string
}

// DefaultLayout returns the conventional apps/libs layout.
func DefaultLayout() Layout {
	return Layout{AppsDir: defs.DefaultAppsDir, LibsDir: defs.DefaultLibsDir}
}

// ReadLayout reads workspaceLayout from nx.json. Missing files or fields
// fall back to the defaults.
func ReadLayout(tree *Tree) (Layout, error) {
	layout := DefaultLayout()

	data, err := tree.Read(defs.NxJSON)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return layout, nil
		}
		return layout, fmt.Errorf("read %s: %w", defs.NxJSON, err)
	}
	if !gjson.ValidBytes(data) {
		return layout, fmt.Errorf("%w: %s", ErrInvalidDocument, defs.NxJSON)
	}

	if v := gjson.GetBytes(data, "workspaceLayout.appsDir").String(); v != "" {
		layout.AppsDir = v
	}
	if v := gjson.GetBytes(data, "workspaceLayout.libsDir").String(); v != "" {
		layout.LibsDir = v
	}
	return layout, nil
}

// NpmScope returns the npmScope declared in nx.json, or "" when absent.
func NpmScope(tree *Tree) string {
	data, err := tree.Read(defs.NxJSON)
	if err != nil {
		return ""
	}
	return gjson.GetBytes(data, "npmScope").String()
}

// registerNxProject records per-project tags in nx.json when the workspace
// keeps them there. Workspaces without nx.json are left alone.
func registerNxProject(tree *Tree, name string, tags []string) error {
	data, err := tree.Read(defs.NxJSON)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", defs.NxJSON, err)
	}
	if tags == nil {
		tags = []string{}
	}
	data, err = sjson.SetBytes(data, "projects."+EscapeKey(name), map[string]any{"tags": tags})
	if err != nil {
		return fmt.Errorf("update %s: %w", defs.NxJSON, err)
	}
	return tree.Write(defs.NxJSON, pretty.Pretty(data))
}
