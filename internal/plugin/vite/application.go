package vite

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

	Style      string `json:"style,omitempty" jsonschema:"enum=css,enum=scss,enum=less,default=css,description=Stylesheet language"`
	SkipFormat bool   `json:"skipFormat,omitempty" jsonschema:"description=Skip formatting files"`
}

func generateApplication(ctx context.Context, opts models.Options, gctx *generator.Context) (install.Task, error) {
	var o ApplicationOptions
	if err := generator.Decode(opts, &o); err != nil {
		return install.Task{}, err
	}
	o.TestOptions.Defaults()
	if o.Style == "" {
		o.Style = "css"
	}

	ns, err := plugin.NormalizeProject(gctx.Tree, o.Schema, models.ProjectTypeApplication)
	if err != nil {
		return install.Task{}, err
	}
	gctx.WarnPeer("vite", "^2.7.0")

	tmplCtx := template.NewTemplateContext(
		template.WithProject(ns),
		template.WithNpmScope(workspace.NpmScope(gctx.Tree)),
		template.WithStyle(o.Style),
		template.WithTestRunners(o.UnitTestRunner, o.E2ETestRunner),
	)
	rules := []template.PruneRule{plugin.UnitTestPruneRule(o.UnitTestRunner)}
	if err := plugin.Scaffold(ctx, gctx, files, ns.ProjectRoot, tmplCtx, rules, "files/app", "files/jest"); err != nil {
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
	return install.AddDependencies(gctx.Tree, install.Dependencies{"vue": "^3.2.25"}, devDependencies(o))
}

func applicationProject(ns naming.NormalizedSchema, o ApplicationOptions) models.ProjectConfiguration {
	root := ns.ProjectRoot
	targets := map[string]models.TargetDefinition{
		"build": {
			Executor: plugin.ID(Name, "build"),
			Options: models.Options{
				"outputPath": path.Join("dist", root),
				"config":     path.Join(root, "vite.config.ts"),
			},
			Configurations: map[string]models.Options{
				"production": {"mode": "production"},
			},
		},
		"serve": {
			Executor: plugin.ID(Name, "dev-server"),
			Options:  models.Options{"buildTarget": ns.ProjectName + ":build", "port": 3000},
			Configurations: map[string]models.Options{
				"production": {"buildTarget": ns.ProjectName + ":build:production"},
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

func devDependencies(o ApplicationOptions) install.Dependencies {
	dev := plugin.EslintDevDependencies()
	dev["vite"] = "^2.7.2"
	dev["@vitejs/plugin-vue"] = "^2.0.0"
	dev["typescript"] = "~4.5.2"
	dev["eslint-plugin-vue"] = "^8.1.1"
	dev["@vue/eslint-config-typescript"] = "^9.1.0"
	switch o.Style {
	case "scss":
		dev["sass"] = "^1.45.0"
	case "less":
		dev["less"] = "^4.1.2"
	}
	if o.Jest() {
		maps.Copy(dev, plugin.JestDevDependencies())
		dev["@vue/vue3-jest"] = "^27.0.0-alpha.4"
		dev["@vue/test-utils"] = "^2.0.0-rc.17"
		dev["identity-obj-proxy"] = "^3.0.0"
	}
	if o.Cypress() {
		maps.Copy(dev, plugin.CypressDevDependencies())
	}
	return dev
}
