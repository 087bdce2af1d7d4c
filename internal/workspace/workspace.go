package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/nxplus/nxplus/internal/defs"
	"github.com/nxplus/nxplus/pkg/models"
)

// workspaceVersion is the workspace.json schema version written for new workspaces.
const workspaceVersion = 2

// Workspace is the parsed project registry from workspace.json.
type Workspace struct {
	Version  int                                    `json:"version"`
	Projects map[string]models.ProjectConfiguration `json:"projects"`
}

// Project returns the named project configuration.
func (w *Workspace) Project(name string) (models.ProjectConfiguration, error) {
	p, ok := w.Projects[name]
	if !ok {
		return models.ProjectConfiguration{}, fmt.Errorf("%w: %s", ErrProjectNotFound, name)
	}
	return p, nil
}

// projectByRoot returns the name of the project registered at root, if any.
func (w *Workspace) projectByRoot(root string) (string, bool) {
	for name, p := range w.Projects {
		if strings.TrimSuffix(p.Root, "/") == strings.TrimSuffix(root, "/") {
			return name, true
		}
	}
	return "", false
}

// ReadWorkspace parses workspace.json from the tree. A missing file yields
// an empty workspace.
func ReadWorkspace(tree *Tree) (*Workspace, error) {
	ws := &Workspace{Version: workspaceVersion, Projects: map[string]models.ProjectConfiguration{}}

	data, err := tree.Read(defs.WorkspaceJSON)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ws, nil
		}
		return nil, fmt.Errorf("read %s: %w", defs.WorkspaceJSON, err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDocument, defs.WorkspaceJSON)
	}

	if v := gjson.GetBytes(data, "version"); v.Exists() {
		ws.Version = int(v.Int())
	}
	projects := gjson.GetBytes(data, "projects")
	if !projects.Exists() {
		return ws, nil
	}
	if err := json.Unmarshal([]byte(projects.Raw), &ws.Projects); err != nil {
		return nil, fmt.Errorf("%w: %s projects: %v", ErrInvalidDocument, defs.WorkspaceJSON, err)
	}
	return ws, nil
}

// LoadWorkspace reads workspace.json straight from disk.
func LoadWorkspace(root string) (*Workspace, error) {
	return ReadWorkspace(NewTree(root, nil))
}

// writeProject sets projects.<name> in workspace.json, leaving every other
// key of the document as it was.
func writeProject(tree *Tree, name string, cfg models.ProjectConfiguration) error {
	data, err := tree.Read(defs.WorkspaceJSON)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read %s: %w", defs.WorkspaceJSON, err)
		}
		data = fmt.Appendf(nil, `{"version":%d,"projects":{}}`, workspaceVersion)
	}

	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal project %q: %w", name, err)
	}
	data, err = sjson.SetRawBytes(data, "projects."+EscapeKey(name), raw)
	if err != nil {
		return fmt.Errorf("update %s: %w", defs.WorkspaceJSON, err)
	}
	return tree.Write(defs.WorkspaceJSON, pretty.Pretty(data))
}

// EscapeKey escapes a literal object key for use in a gjson/sjson path.
func EscapeKey(key string) string {
	return keyEscaper.Replace(key)
}

var keyEscaper = strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`, "|", `\|`, "#", `\#`, "@", `\@`)

// AddProjectConfiguration registers a new project. It fails with a
// *DuplicateProjectError when the name or root is already taken, in which
// case nothing is staged.
func AddProjectConfiguration(tree *Tree, name string, cfg models.ProjectConfiguration) error {
	ws, err := ReadWorkspace(tree)
	if err != nil {
		return err
	}
	if _, exists := ws.Projects[name]; exists {
		return &DuplicateProjectError{Name: name, Root: cfg.Root, Existing: name}
	}
	if existing, taken := ws.projectByRoot(cfg.Root); taken {
		return &DuplicateProjectError{Name: name, Root: cfg.Root, Existing: existing}
	}

	if err := writeProject(tree, name, cfg); err != nil {
		return err
	}
	return registerNxProject(tree, name, cfg.Tags)
}

// UpdateProjectConfiguration replaces an existing project's configuration.
func UpdateProjectConfiguration(tree *Tree, name string, cfg models.ProjectConfiguration) error {
	ws, err := ReadWorkspace(tree)
	if err != nil {
		return err
	}
	if _, exists := ws.Projects[name]; !exists {
		return fmt.Errorf("%w: %s", ErrProjectNotFound, name)
	}
	return writeProject(tree, name, cfg)
}

// ReadProjectConfiguration returns a copy of the named project's configuration.
func ReadProjectConfiguration(tree *Tree, name string) (models.ProjectConfiguration, error) {
	ws, err := ReadWorkspace(tree)
	if err != nil {
		return models.ProjectConfiguration{}, err
	}
	p, err := ws.Project(name)
	if err != nil {
		return models.ProjectConfiguration{}, err
	}
	return p.Clone(), nil
}
