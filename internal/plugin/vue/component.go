package vue

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/nxplus/nxplus/internal/generator"
	"github.com/nxplus/nxplus/internal/install"
	"github.com/nxplus/nxplus/internal/naming"
	"github.com/nxplus/nxplus/internal/template"
	"github.com/nxplus/nxplus/internal/workspace"
	"github.com/nxplus/nxplus/pkg/models"
)

// ComponentOptions are the options of the component generator.
type ComponentOptions struct {
	Name    string `json:"name" jsonschema:"required,description=Component name"`
	Project string `json:"project" jsonschema:"required,description=Project the component is added to"`
	// Directory is relative to the project's component folder.
	Directory  string `json:"directory,omitempty" jsonschema:"description=Subdirectory of the component folder"`
	SkipTests  bool   `json:"skipTests,omitempty" jsonschema:"description=Do not create a spec file"`
	Export     bool   `json:"export,omitempty" jsonschema:"description=Export the component from a library's index.ts"`
	SkipFormat bool   `json:"skipFormat,omitempty" jsonschema:"description=Skip formatting files"`
}

func generateComponent(ctx context.Context, opts models.Options, gctx *generator.Context) (install.Task, error) {
	var o ComponentOptions
	if err := generator.Decode(opts, &o); err != nil {
		return install.Task{}, err
	}
	project, err := workspace.ReadProjectConfiguration(gctx.Tree, o.Project)
	if err != nil {
		return install.Task{}, err
	}
	names := naming.Names(o.Name)
	if names.FileName == "" {
		return install.Task{}, fmt.Errorf("%w: %q", naming.ErrEmptyName, o.Name)
	}

	srcRoot := project.SourceRoot
	if srcRoot == "" {
		srcRoot = path.Join(project.Root, "src")
	}
	folder := "components"
	if project.ProjectType == models.ProjectTypeLibrary {
		folder = "lib"
	}
	dir := path.Join(srcRoot, folder)
	testDir := path.Join(project.Root, "tests/unit")
	if o.Directory != "" {
		sub := naming.Slug(o.Directory)
		dir = path.Join(dir, sub)
		testDir = path.Join(testDir, sub)
	}
	rel, err := filepath.Rel(testDir, path.Join(dir, names.ClassName))
	if err != nil {
		return install.Task{}, err
	}

	tmplCtx := template.NewTemplateContext(
		template.WithNames(names),
		template.WithVueVersion(projectVueVersion(gctx.Tree)),
		template.WithExtra("importPath", filepath.ToSlash(rel)),
	)
	tmplCtx.ProjectName = o.Project
	tmplCtx.ProjectRoot = project.Root

	sc := template.NewScaffolder(files, gctx.Log())
	if _, err := sc.Generate(ctx, gctx.Tree, "files/component/src", dir, tmplCtx); err != nil {
		return install.Task{}, err
	}
	// Projects generated without a unit test runner get no spec.
	if !o.SkipTests && project.HasTarget("test") {
		if _, err := sc.Generate(ctx, gctx.Tree, "files/component/tests/unit", testDir, tmplCtx); err != nil {
			return install.Task{}, err
		}
	}

	if o.Export && project.ProjectType == models.ProjectTypeLibrary {
		if err := exportComponent(gctx.Tree, srcRoot, dir, names.ClassName); err != nil {
			return install.Task{}, err
		}
	}
	return install.Task{Root: gctx.Tree.Root()}, nil
}

// exportComponent appends a re-export of the component to index.ts.
func exportComponent(tree *workspace.Tree, srcRoot, dir, className string) error {
	index := path.Join(srcRoot, "index.ts")
	data, err := tree.Read(index)
	if err != nil {
		return fmt.Errorf("export %s: %w", className, err)
	}
	rel := strings.TrimPrefix(path.Join(dir, className), srcRoot+"/")
	line := fmt.Sprintf("export { default as %s } from './%s';\n", className, rel)
	if strings.Contains(string(data), line) {
		return nil
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	return tree.Write(index, append(data, line...))
}
