// Package docusaurus provides the @nxplus/docusaurus plugin: a site
// generator and executors that drive the docusaurus CLI.
package docusaurus

import (
	"context"
	"embed"
	"path"

	"github.com/nxplus/nxplus/internal/bridge"
	"github.com/nxplus/nxplus/internal/executor"
	"github.com/nxplus/nxplus/internal/generator"
	"github.com/nxplus/nxplus/internal/install"
	"github.com/nxplus/nxplus/internal/naming"
	"github.com/nxplus/nxplus/internal/plugin"
	"github.com/nxplus/nxplus/internal/template"
	"github.com/nxplus/nxplus/internal/workspace"
	"github.com/nxplus/nxplus/pkg/models"
)

// Name is the plugin collection name.
const Name = "@nxplus/docusaurus"

//go:embed all:files
var files embed.FS

const doc = `# @nxplus/docusaurus

Documentation sites built with Docusaurus 2.

## Generators

- **application** (alias ` + "`app`" + `): a classic-preset site with docs, a
  blog and a markdown landing page.

## Executors

- **browser**: ` + "`docusaurus build`" + ` into ` + "`outputPath`" + `.
- **dev-server**: ` + "`docusaurus start`" + ` without opening a browser.
`

// ApplicationOptions are the options of the application generator.
type ApplicationOptions struct {
	naming.Schema

	Title      string `json:"title,omitempty" jsonschema:"description=Site title shown in the navbar"`
	SkipFormat bool   `json:"skipFormat,omitempty" jsonschema:"description=Skip formatting files"`
}

// BrowserOptions are the options of the browser executor.
type BrowserOptions struct {
	OutputPath string `json:"outputPath" jsonschema:"required,description=Output directory relative to the workspace root"`
	Locale     string `json:"locale,omitempty" jsonschema:"description=Build only this locale"`
}

// DevServerOptions are the options of the dev-server executor.
type DevServerOptions struct {
	Port   int    `json:"port,omitempty" jsonschema:"default=3000,description=Port to listen on"`
	Host   string `json:"host,omitempty" jsonschema:"description=Host to listen on"`
	Locale string `json:"locale,omitempty" jsonschema:"description=Serve this locale"`
}

// Docusaurus holds the plugin configuration.
type Docusaurus struct {
	launcher executor.Launcher
}

// New returns the plugin. A nil launcher runs the workspace's docusaurus
// binary.
func New(launcher executor.Launcher) plugin.Plugin {
	d := &Docusaurus{launcher: launcher}
	return plugin.Plugin{
		Name:    Name,
		Summary: "Docusaurus documentation sites",
		Doc:     doc,
		Generators: []generator.Descriptor{
			{ID: plugin.ID(Name, "application"), Aliases: []string{"app"}, Description: "Create a Docusaurus site", Schema: &ApplicationOptions{}, Generator: generator.Func(generateApplication)},
		},
		Executors: []executor.Descriptor{
			{ID: plugin.ID(Name, "browser"), Description: "Build with docusaurus build", Schema: &BrowserOptions{}, Executor: executor.Func(d.browser)},
			{ID: plugin.ID(Name, "dev-server"), Description: "Serve with docusaurus start", Schema: &DevServerOptions{}, Executor: executor.Func(d.devServer)},
		},
	}
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
	gctx.WarnPeer("@docusaurus/core", "^2.0.0-0")

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
		SourceRoot:  path.Join(root, "src"),
		ProjectType: models.ProjectTypeApplication,
		Targets: map[string]models.TargetDefinition{
			"build": {
				Executor: plugin.ID(Name, "browser"),
				Options:  models.Options{"outputPath": path.Join("dist", root)},
			},
			"serve": {
				Executor: plugin.ID(Name, "dev-server"),
				Options:  models.Options{"port": 3000},
			},
			"lint": plugin.LintTarget(path.Join(root, "**/*.js")),
		},
		Tags: ns.ParsedTags,
	}
	if err := workspace.AddProjectConfiguration(gctx.Tree, ns.ProjectName, cfg); err != nil {
		return install.Task{}, err
	}

	deps := install.Dependencies{
		"@docusaurus/core":           "2.0.0-beta.13",
		"@docusaurus/preset-classic": "2.0.0-beta.13",
		"@mdx-js/react":              "^1.6.21",
		"clsx":                       "^1.1.1",
		"prism-react-renderer":       "^1.2.1",
		"react":                      "^17.0.2",
		"react-dom":                  "^17.0.2",
	}
	return install.AddDependencies(gctx.Tree, deps, plugin.EslintDevDependencies())
}

func (d *Docusaurus) browser(ctx context.Context, opts executor.Options, ectx *executor.Context) (executor.Handle, error) {
	var o BrowserOptions
	if err := executor.Decode(opts, &o); err != nil {
		return nil, err
	}
	projectRoot, err := ectx.ProjectRoot()
	if err != nil {
		return nil, err
	}
	cmd, err := plugin.ToolCommand("docusaurus", []string{"build", projectRoot},
		bridge.OutDir("--out-dir", ectx.Abs(o.OutputPath)),
		bridge.Flag("--locale", o.Locale),
	)
	if err != nil {
		return nil, err
	}
	return executor.RunTool(ctx, plugin.ToolLauncher(d.launcher, ectx.Root), ectx.Root, cmd, ectx, o.OutputPath)
}

func (d *Docusaurus) devServer(ctx context.Context, opts executor.Options, ectx *executor.Context) (executor.Handle, error) {
	var o DevServerOptions
	if err := executor.Decode(opts, &o); err != nil {
		return nil, err
	}
	if o.Port == 0 {
		o.Port = 3000
	}
	projectRoot, err := ectx.ProjectRoot()
	if err != nil {
		return nil, err
	}
	cmd, err := plugin.ToolCommand("docusaurus", []string{"start", projectRoot},
		bridge.DevServerAddr(o.Host, o.Port),
		bridge.Flag("--locale", o.Locale),
		bridge.Switch("--no-open", true),
	)
	if err != nil {
		return nil, err
	}
	return executor.ServeTool(ctx, plugin.ToolLauncher(d.launcher, ectx.Root), ectx.Root, cmd, ectx)
}
