package vue

import (
	"context"
	"maps"
	"path"

	"github.com/nxplus/nxplus/internal/generator"
	"github.com/nxplus/nxplus/internal/install"
	"github.com/nxplus/nxplus/internal/naming"
	"github.com/nxplus/nxplus/internal/plugin"
	"github.com/nxplus/nxplus/internal/template"
	"github.com/nxplus/nxplus/internal/workspace"
	"github.com/nxplus/nxplus/pkg/models"
)

// ApplicationOptions are the options of the application generator.
type ApplicationOptions struct {
	naming.Schema
	plugin.TestOptions

	Style      string `json:"style,omitempty" jsonschema:"enum=css,enum=scss,enum=less,enum=stylus,default=css,description=Stylesheet language"`
	Routing    bool   `json:"routing,omitempty" jsonschema:"description=Generate a router and two views"`
	Babel      bool   `json:"babel,omitempty" jsonschema:"description=Add a babel config for the unit tests"`
	VueVersion int    `json:"vueVersion,omitempty" jsonschema:"enum=2,enum=3,default=3,description=Vue major version"`
	SkipFormat bool   `json:"skipFormat,omitempty" jsonschema:"description=Skip formatting files"`
}

func (o *ApplicationOptions) defaults() {
	o.TestOptions.Defaults()
	if o.Style == "" {
		o.Style = "css"
	}
	if o.VueVersion == 0 {
		o.VueVersion = 3
	}
}

func generateApplication(ctx context.Context, opts models.Options, gctx *generator.Context) (install.Task, error) {
	var o ApplicationOptions
	if err := generator.Decode(opts, &o); err != nil {
		return install.Task{}, err
	}
	o.defaults()

	ns, err := plugin.NormalizeProject(gctx.Tree, o.Schema, models.ProjectTypeApplication)
	if err != nil {
		return install.Task{}, err
	}
	gctx.WarnPeer("vue", vueRange(o.VueVersion))

	tmplCtx := template.NewTemplateContext(
		template.WithProject(ns),
		template.WithNpmScope(workspace.NpmScope(gctx.Tree)),
		template.WithStyle(o.Style),
		template.WithTestRunners(o.UnitTestRunner, o.E2ETestRunner),
		template.WithRouting(o.Routing),
		template.WithBabel(o.Babel),
		template.WithVueVersion(o.VueVersion),
	)
	if err := plugin.Scaffold(ctx, gctx, files, ns.ProjectRoot, tmplCtx, []template.PruneRule{
		plugin.UnitTestPruneRule(o.UnitTestRunner),
		{Disabled: !o.Routing, Patterns: []string{"src/router/**", "src/views/**"}},
		{Disabled: !o.Babel, Patterns: []string{"babel.config.js"}},
	}, "files/app", "files/jest"); err != nil {
		return install.Task{}, err
	}

	if err := workspace.AddProjectConfiguration(gctx.Tree, ns.ProjectName, applicationProject(ns, o)); err != nil {
		return install.Task{}, err
	}
	if o.Cypress() {
		if err := plugin.AddCypressProject(ctx, gctx, ns, plugin.E2EProject{DevServerTarget: "serve", Heading: "Welcome to " + ns.ProjectName}); err != nil {
			return install.Task{}, err
		}
	}

	if err := ensurePostinstall(gctx); err != nil {
		return install.Task{}, err
	}
	deps, devDeps := vueDependencies(o.VueVersion, o.Routing), vueDevDependencies(o.VueVersion, o.TestOptions, o.Babel)
	return install.AddDependencies(gctx.Tree, deps, devDeps)
}

// ensurePostinstall adds the dependency graph patch as the workspace
// postinstall script. A different existing postinstall is kept.
func ensurePostinstall(gctx *generator.Context) error {
	_, err := install.EnsureScript(gctx.Tree, "postinstall", postinstallScript, gctx.Log())
	return err
}

// applicationProject builds the workspace entry of a generated app. Every
// path option is prefixed with the project root.
func applicationProject(ns naming.NormalizedSchema, o ApplicationOptions) models.ProjectConfiguration {
	root := ns.ProjectRoot
	targets := map[string]models.TargetDefinition{
		"build": {
			Executor: plugin.ID(Name, "browser"),
			Options: models.Options{
				"outputPath": path.Join("dist", root),
				"index":      path.Join(root, "public/index.html"),
				"main":       path.Join(root, "src/main.ts"),
				"tsConfig":   path.Join(root, "tsconfig.app.json"),
				"assets": []any{
					map[string]any{"glob": "**/*", "input": path.Join(root, "public"), "output": ".", "ignore": []any{"index.html"}},
				},
				"sourceMap": true,
			},
			Configurations: map[string]models.Options{
				"production": {
					"mode":          "production",
					"outputHashing": "all",
					"sourceMap":     false,
					"minify":        true,
				},
			},
		},
		"serve": {
			Executor: plugin.ID(Name, "dev-server"),
			Options:  models.Options{"browserTarget": ns.ProjectName + ":build"},
			Configurations: map[string]models.Options{
				"production": {"browserTarget": ns.ProjectName + ":build:production"},
			},
		},
		"lint": plugin.LintTarget(path.Join(root, "**/*.{ts,tsx,vue}")),
	}
	if o.Jest() {
		targets["test"] = plugin.JestTarget(root)
	}
	return models.ProjectConfiguration{
		Root:        root,
		SourceRoot:  path.Join(root, "src"),
		ProjectType: models.ProjectTypeApplication,
		Targets:     targets,
		Tags:        ns.ParsedTags,
	}
}

func vueRange(version int) string {
	if version == 2 {
		return "^2.6.0"
	}
	return "^3.0.0"
}

func vueDependencies(version int, routing bool) install.Dependencies {
	deps := install.Dependencies{"vue": "^3.2.23"}
	if version == 2 {
		deps["vue"] = "^2.6.14"
	}
	if routing {
		deps["vue-router"] = "^4.0.12"
		if version == 2 {
			deps["vue-router"] = "^3.5.3"
		}
	}
	return deps
}

func vueDevDependencies(version int, tests plugin.TestOptions, babel bool) install.Dependencies {
	dev := plugin.EslintDevDependencies()
	dev["eslint-plugin-vue"] = "^8.1.1"
	dev["@vue/eslint-config-typescript"] = "^9.1.0"
	dev["typescript"] = "~4.5.2"
	if tests.Jest() {
		maps.Copy(dev, plugin.JestDevDependencies())
		dev["identity-obj-proxy"] = "^3.0.0"
		dev["@vue/test-utils"] = "^2.0.0-rc.17"
		if version == 2 {
			dev["@vue/test-utils"] = "^1.3.0"
		}
	}
	if tests.Cypress() {
		maps.Copy(dev, plugin.CypressDevDependencies())
	}
	if babel {
		dev["@babel/core"] = "^7.16.0"
		dev["@babel/preset-env"] = "^7.16.4"
		dev["@babel/preset-typescript"] = "^7.16.0"
	}
	return dev
}
