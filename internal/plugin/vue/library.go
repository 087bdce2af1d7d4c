package vue

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/blang/semver/v4"
	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/nxplus/nxplus/internal/defs"
	"github.com/nxplus/nxplus/internal/generator"
	"github.com/nxplus/nxplus/internal/install"
	"github.com/nxplus/nxplus/internal/naming"
	"github.com/nxplus/nxplus/internal/plugin"
	"github.com/nxplus/nxplus/internal/template"
	"github.com/nxplus/nxplus/internal/workspace"
	"github.com/nxplus/nxplus/pkg/models"
)

// LibraryOptions are the options of the library generator.
type LibraryOptions struct {
	naming.Schema

	UnitTestRunner string `json:"unitTestRunner,omitempty" jsonschema:"enum=jest,enum=none,default=jest,description=Test runner to use for unit tests"`
	Publishable    bool   `json:"publishable,omitempty" jsonschema:"description=Add a package.json and a build target"`
	VueVersion     int    `json:"vueVersion,omitempty" jsonschema:"enum=2,enum=3,default=3,description=Vue major version"`
	SkipTsConfig   bool   `json:"skipTsConfig,omitempty" jsonschema:"description=Do not add a path mapping to tsconfig.base.json"`
	SkipFormat     bool   `json:"skipFormat,omitempty" jsonschema:"description=Skip formatting files"`
}

func generateLibrary(ctx context.Context, opts models.Options, gctx *generator.Context) (install.Task, error) {
	var o LibraryOptions
	if err := generator.Decode(opts, &o); err != nil {
		return install.Task{}, err
	}
	if o.UnitTestRunner == "" {
		o.UnitTestRunner = plugin.RunnerJest
	}
	if o.VueVersion == 0 {
		o.VueVersion = 3
	}

	ns, err := plugin.NormalizeProject(gctx.Tree, o.Schema, models.ProjectTypeLibrary)
	if err != nil {
		return install.Task{}, err
	}
	gctx.WarnPeer("vue", vueRange(o.VueVersion))

	scope := workspace.NpmScope(gctx.Tree)
	tmplCtx := template.NewTemplateContext(
		template.WithProject(ns),
		template.WithNpmScope(scope),
		template.WithTestRunners(o.UnitTestRunner, plugin.RunnerNone),
		template.WithVueVersion(o.VueVersion),
	)
	if err := plugin.Scaffold(ctx, gctx, files, ns.ProjectRoot, tmplCtx, []template.PruneRule{
		plugin.UnitTestPruneRule(o.UnitTestRunner),
		{Disabled: !o.Publishable, Patterns: []string{"package.json"}},
	}, "files/lib", "files/jest"); err != nil {
		return install.Task{}, err
	}

	if err := workspace.AddProjectConfiguration(gctx.Tree, ns.ProjectName, libraryProject(ns, o)); err != nil {
		return install.Task{}, err
	}
	if !o.SkipTsConfig {
		if err := addPathMapping(gctx.Tree, importPath(scope, ns.ProjectName), path.Join(ns.ProjectRoot, "src/index.ts")); err != nil {
			return install.Task{}, err
		}
	}

	if err := ensurePostinstall(gctx); err != nil {
		return install.Task{}, err
	}
	tests := plugin.TestOptions{UnitTestRunner: o.UnitTestRunner, E2ETestRunner: plugin.RunnerNone}
	devDeps := vueDevDependencies(o.VueVersion, tests, false)
	deps := vueDependencies(o.VueVersion, false)
	return install.AddDependencies(gctx.Tree, deps, devDeps)
}

func libraryProject(ns naming.NormalizedSchema, o LibraryOptions) models.ProjectConfiguration {
	root := ns.ProjectRoot
	targets := map[string]models.TargetDefinition{
		"lint": plugin.LintTarget(path.Join(root, "**/*.{ts,tsx,vue}")),
	}
	if o.UnitTestRunner == plugin.RunnerJest {
		targets["test"] = plugin.JestTarget(root)
	}
	if o.Publishable {
		targets["build"] = models.TargetDefinition{
			Executor: plugin.ID(Name, "library"),
			Options: models.Options{
				"outputPath": path.Join("dist", root),
				"entry":      path.Join(root, "src/index.ts"),
				"tsConfig":   path.Join(root, "tsconfig.lib.json"),
				"name":       ns.ProjectName,
				"formats":    []any{"esm", "cjs"},
			},
			Configurations: map[string]models.Options{
				"production": {"minify": true},
			},
		}
	}
	return models.ProjectConfiguration{
		Root:        root,
		SourceRoot:  path.Join(root, "src"),
		ProjectType: models.ProjectTypeLibrary,
		Targets:     targets,
		Tags:        ns.ParsedTags,
	}
}

func importPath(scope, projectName string) string {
	if scope == "" {
		return projectName
	}
	return "@" + scope + "/" + projectName
}

// addPathMapping maps an import path to a library entry in
// tsconfig.base.json, creating the file when the workspace has none.
// Comments in an existing file are not preserved.
func addPathMapping(tree *workspace.Tree, importPath, entry string) error {
	data, err := tree.Read(defs.TsconfigBaseJSON)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		data = []byte(`{"compilerOptions":{"baseUrl":".","paths":{}}}`)
	case err != nil:
		return fmt.Errorf("read %s: %w", defs.TsconfigBaseJSON, err)
	default:
		data = jsonc.ToJSON(data)
	}
	key := "compilerOptions.paths." + workspace.EscapeKey(importPath)
	if gjson.GetBytes(data, key).Exists() {
		return fmt.Errorf("%w: path mapping %q already exists in %s", workspace.ErrDuplicateProject, importPath, defs.TsconfigBaseJSON)
	}
	data, err = sjson.SetBytes(data, key, []string{entry})
	if err != nil {
		return fmt.Errorf("update %s: %w", defs.TsconfigBaseJSON, err)
	}
	return tree.Write(defs.TsconfigBaseJSON, pretty.Pretty(data))
}

// projectVueVersion reads the Vue major version from the workspace
// package.json, 3 when it cannot tell.
func projectVueVersion(tree *workspace.Tree) int {
	data, err := tree.Read(defs.PackageJSON)
	if err != nil {
		return 3
	}
	for _, section := range []string{"dependencies", "devDependencies"} {
		r := gjson.GetBytes(data, section+".vue").String()
		if r == "" {
			continue
		}
		if v, err := semver.ParseTolerant(strings.TrimLeft(r, "^~>=v ")); err == nil && v.Major == 2 {
			return 2
		}
		return 3
	}
	return 3
}
