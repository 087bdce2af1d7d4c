// Package vue provides the @nxplus/vue plugin: application, library and
// component generators, and esbuild-driven browser, dev-server and library
// executors.
package vue

import (
	"embed"
	"errors"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/nxplus/nxplus/internal/executor"
	"github.com/nxplus/nxplus/internal/generator"
	"github.com/nxplus/nxplus/internal/install"
	"github.com/nxplus/nxplus/internal/plugin"
)

// postinstallScript teaches the Nx project graph to follow imports in .vue
// files. It is added to package.json once and never overwritten.
const postinstallScript = "node node_modules/@nxplus/vue/patch-nx-dep-graph.js"

// Name is the plugin collection name.
const Name = "@nxplus/vue"

// nativeConfigs are Vue CLI config files the executors refuse to ignore.
var nativeConfigs = []string{"vue.config.js", "vue.config.cjs", "vue.config.mjs"}

// ErrBuildFailed indicates esbuild reported errors.
var ErrBuildFailed = errors.New("vue: build failed")

//go:embed all:files
var files embed.FS

const doc = `# @nxplus/vue

Vue 2 and Vue 3 applications and libraries, bundled with esbuild.

## Generators

- **application** (alias ` + "`app`" + `): a Vue application with build, serve,
  lint and test targets, plus a Cypress e2e project.
- **library** (alias ` + "`lib`" + `): a component library, publishable with
  ` + "`--publishable`" + `.
- **component** (alias ` + "`c`" + `): a component inside an existing project.

## Executors

- **browser**: bundles the application and writes index.html.
- **dev-server**: serves the application; reads its build options from
  ` + "`browserTarget`" + ` and may override only mode, sourceMap, watch,
  publicPath and define.
- **library**: bundles a library as ES module and/or CommonJS.

The application and library generators set package.json's ` + "`postinstall`" + `
script to patch the Nx project graph for .vue imports, unless a postinstall
script already exists.

Components use string templates compiled at runtime, so no SFC compiler is
required. A ` + "`vue.config.js`" + ` in the project root is rejected.
`

// Option configures the plugin.
type Option func(*Vue)

// WithEsbuildPlugins adds esbuild plugins to every build, e.g. an SFC
// compiler for .vue files.
func WithEsbuildPlugins(p ...api.Plugin) Option {
	return func(v *Vue) {
		v.esbuildPlugins = append(v.esbuildPlugins, p...)
	}
}

// WithModuleResolver sets how installed packages are looked up when the
// executors detect the Vue version. The default reads node_modules.
func WithModuleResolver(r install.ModuleResolver) Option {
	return func(v *Vue) {
		v.resolver = r
	}
}

// Vue holds the plugin's configuration shared by its executors.
type Vue struct {
	esbuildPlugins []api.Plugin
	resolver       install.ModuleResolver
}

// New returns the plugin.
func New(opts ...Option) plugin.Plugin {
	v := &Vue{}
	for _, opt := range opts {
		opt(v)
	}
	return plugin.Plugin{
		Name:    Name,
		Summary: "Vue applications and libraries bundled with esbuild",
		Doc:     doc,
		Generators: []generator.Descriptor{
			{ID: plugin.ID(Name, "application"), Aliases: []string{"app"}, Description: "Create a Vue application", Schema: &ApplicationOptions{}, Generator: generator.Func(generateApplication)},
			{ID: plugin.ID(Name, "library"), Aliases: []string{"lib"}, Description: "Create a Vue library", Schema: &LibraryOptions{}, Generator: generator.Func(generateLibrary)},
			{ID: plugin.ID(Name, "component"), Aliases: []string{"c"}, Description: "Create a Vue component", Schema: &ComponentOptions{}, Generator: generator.Func(generateComponent)},
		},
		Executors: []executor.Descriptor{
			{ID: plugin.ID(Name, "browser"), Description: "Build a Vue application", Schema: &BrowserOptions{}, Executor: executor.Func(v.browser)},
			{ID: plugin.ID(Name, "dev-server"), Description: "Serve a Vue application", Schema: &DevServerOptions{}, Executor: executor.Func(v.devServer)},
			{ID: plugin.ID(Name, "library"), Description: "Build a Vue library", Schema: &LibraryBuildOptions{}, Executor: executor.Func(v.library)},
		},
	}
}

func (v *Vue) moduleResolver(root string) install.ModuleResolver {
	if v.resolver != nil {
		return v.resolver
	}
	return install.NodeModulesResolver{Root: root}
}

// vueMajor returns the installed Vue major version, 3 when unknown.
func (v *Vue) vueMajor(root string) int {
	if major, ok := install.InstalledMajor(v.moduleResolver(root), "vue"); ok && major == 2 {
		return 2
	}
	return 3
}
