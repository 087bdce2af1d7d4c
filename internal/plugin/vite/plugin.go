// Package vite provides the @nxplus/vite plugin: a Vue application
// generator and executors that drive the vite CLI.
package vite

import (
	"embed"

	"github.com/nxplus/nxplus/internal/executor"
	"github.com/nxplus/nxplus/internal/generator"
	"github.com/nxplus/nxplus/internal/plugin"
)

// Name is the plugin collection name.
const Name = "@nxplus/vite"

//go:embed all:files
var files embed.FS

const doc = `# @nxplus/vite

Vue 3 applications built and served by Vite.

## Generators

- **application** (alias ` + "`app`" + `): a Vite + Vue application with a
  ` + "`vite.config.ts`" + `, build, serve, lint and test targets.

## Executors

- **build**: runs ` + "`vite build`" + ` with the output directory and mode
  taken from the target options.
- **dev-server**: runs ` + "`vite`" + ` with the config of ` + "`buildTarget`" + `.
`

// Vite holds the plugin configuration.
type Vite struct {
	launcher executor.Launcher
}

// New returns the plugin. A nil launcher runs the workspace's vite binary.
func New(launcher executor.Launcher) plugin.Plugin {
	v := &Vite{launcher: launcher}
	return plugin.Plugin{
		Name:    Name,
		Summary: "Vue applications built with Vite",
		Doc:     doc,
		Generators: []generator.Descriptor{
			{ID: plugin.ID(Name, "application"), Aliases: []string{"app"}, Description: "Create a Vite application", Schema: &ApplicationOptions{}, Generator: generator.Func(generateApplication)},
		},
		Executors: []executor.Descriptor{
			{ID: plugin.ID(Name, "build"), Description: "Build with vite build", Schema: &BuildOptions{}, Executor: executor.Func(v.build)},
			{ID: plugin.ID(Name, "dev-server"), Description: "Serve with the vite dev server", Schema: &DevServerOptions{}, Executor: executor.Func(v.devServer)},
		},
	}
}
