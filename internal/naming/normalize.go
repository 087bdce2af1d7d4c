package naming

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/nxplus/nxplus/internal/workspace"
	"github.com/nxplus/nxplus/pkg/models"
)

// Schema is the part of every generator's input that identifies the project.
// Plugin schemas embed it.
type Schema struct {
	Name      string `json:"name" jsonschema:"required,description=Project name"`
	Directory string `json:"directory,omitempty" jsonschema:"description=Directory under the apps or libs folder"`
	Tags      string `json:"tags,omitempty" jsonschema:"description=Comma-separated tags used for linting boundaries"`
}

// NormalizedSchema is Schema plus the identifiers derived from it. It is
// computed once per generator run and not modified afterwards.
type NormalizedSchema struct {
	Schema

	Name             string
	ProjectDirectory string
	ProjectName      string
	ProjectRoot      string
	ParsedTags       []string
	OffsetFromRoot   string
}

// Normalize derives the NormalizedSchema for a project of the given type.
// The layout decides whether the project lives under the apps or libs
// directory.
func Normalize(s Schema, layout workspace.Layout, kind models.ProjectType) (NormalizedSchema, error) {
	name := Slug(s.Name)
	if name == "" {
		return NormalizedSchema{}, fmt.Errorf("%w: %q", ErrEmptyName, s.Name)
	}

	dir, err := directorySlug(s.Directory)
	if err != nil {
		return NormalizedSchema{}, err
	}
	projectDirectory := name
	if dir != "" {
		projectDirectory = dir + "/" + name
	}

	base := layout.AppsDir
	if kind == models.ProjectTypeLibrary {
		base = layout.LibsDir
	}
	root := path.Join(base, projectDirectory)

	return NormalizedSchema{
		Schema:           s,
		Name:             name,
		ProjectDirectory: projectDirectory,
		ProjectName:      strings.ReplaceAll(projectDirectory, "/", "-"),
		ProjectRoot:      root,
		ParsedTags:       ParseTags(s.Tags),
		OffsetFromRoot:   OffsetFromRoot(root),
	}, nil
}

// directorySlug slugs every segment of a directory option.
func directorySlug(dir string) (string, error) {
	dir = strings.Trim(strings.ReplaceAll(dir, `\`, "/"), "/")
	if dir == "" {
		return "", nil
	}
	var segs []string
	for seg := range strings.SplitSeq(dir, "/") {
		if seg == ".." {
			return "", fmt.Errorf("%w: %q", ErrInvalidDirectory, dir)
		}
		if s := Slug(seg); s != "" {
			segs = append(segs, s)
		}
	}
	return strings.Join(segs, "/"), nil
}

// ParseTags splits a comma-separated tag list, trimming whitespace and
// dropping empty and repeated entries. Order of first appearance is kept.
func ParseTags(tags string) []string {
	var out []string
	for t := range strings.SplitSeq(tags, ",") {
		t = strings.TrimSpace(t)
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// OffsetFromRoot returns the relative path from a project root back to the
// workspace root, e.g. "../../../" for "apps/subdir/my-app".
func OffsetFromRoot(root string) string {
	root = path.Clean(strings.Trim(root, "/"))
	if root == "." || root == "" {
		return "./"
	}
	return strings.Repeat("../", strings.Count(root, "/")+1)
}
