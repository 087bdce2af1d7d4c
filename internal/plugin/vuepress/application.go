package vuepress

import (
	"context"
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

	Title      string `json:"title,omitempty" jsonschema:"description=Site title"`
	SkipFormat bool   `json:"skipFormat,omitempty" jsonschema:"description=Skip formatting files"`
}

func generateApplication(ctx context.Context, opts models.Options, gctx *generator.Context) (install.Task, error) {
	var o ApplicationOptions
	if err := generator.Decode(opts, &o); err != nil {
		return install.Task{}, err
	}
	ns, err := plugin.NormalizeProject(gctx.Tree, o.Schema, models.ProjectTypeApplication)
	if err != nil {
		return install.Task{}, err
	}
	if o.Title == "" {
		o.Title = naming.Names(ns.Name).ClassName
	}
	gctx.WarnPeer("vuepress", "^2.0.0-0")

	tmplCtx := template.NewTemplateContext(
		template.WithProject(ns),
		template.WithNpmScope(workspace.NpmScope(gctx.Tree)),
		template.WithExtra("title", o.Title),
	)
	if err := plugin.Scaffold(ctx, gctx, files, ns.ProjectRoot, tmplCtx, nil, "files/app"); err != nil {
		return install.Task{}, err
	}

	root := ns.ProjectRoot
	cfg := models.ProjectConfiguration{
		Root:        root,
		SourceRoot:  path.Join(root, "docs"),
		ProjectType: models.ProjectTypeApplication,
		Targets: map[string]models.TargetDefinition{
			"build": {
				Executor: plugin.ID(Name, "browser"),
				Options:  models.Options{"outputPath": path.Join("dist", root)},
			},
			"serve": {
				Executor: plugin.ID(Name, "dev-server"),
				Options:  models.Options{"port": 8080},
			},
			"lint": plugin.LintTarget(path.Join(root, "docs/.vuepress/**/*.ts")),
		},
		Tags: ns.ParsedTags,
	}
	if err := workspace.AddProjectConfiguration(gctx.Tree, ns.ProjectName, cfg); err != nil {
		return install.Task{}, err
	}

	dev := plugin.EslintDevDependencies()
	dev["vuepress"] = "^2.0.0-beta.27"
	dev["typescript"] = "~4.5.2"
	return install.AddDependencies(gctx.Tree, install.Dependencies{"vue": "^3.2.25"}, dev)
}
