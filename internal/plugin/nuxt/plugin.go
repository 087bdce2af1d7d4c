// Package nuxt provides the @nxplus/nuxt plugin: an application generator
// and executors that drive the nuxi CLI.
package nuxt

import (
	"embed"

	"github.com/nxplus/nxplus/internal/executor"
	"github.com/nxplus/nxplus/internal/generator"
	"github.com/nxplus/nxplus/internal/plugin"
)

// Name is the plugin collection name.
const Name = "@nxplus/nuxt"

// outputDirEnv tells Nitro where to write the server and public output.
const outputDirEnv = "NITRO_OUTPUT_DIR"

//go:embed all:files
var files embed.FS

const doc = `# @nxplus/nuxt

Nuxt 3 applications driven through ` + "`nuxi`" + `.

## Generators

- **application** (alias ` + "`app`" + `): a Nuxt application whose build
  cache lives under ` + "`node_modules/.cache/nuxt`" + `.

## Executors

- **browser**: ` + "`nuxi build`" + `, writing Nitro output to ` + "`outputPath`" + `.
- **server**: ` + "`nuxi dev`" + `, or ` + "`nuxi preview`" + ` of the build output
  when ` + "`dev`" + ` is false.
- **static**: ` + "`nuxi generate`" + `, a prerendered site in ` + "`outputPath`" + `.
`

// Nuxt holds the plugin configuration.
type Nuxt struct {
	launcher executor.Launcher
}

// New returns the plugin. A nil launcher runs the workspace's nuxi binary.
func New(launcher executor.Launcher) plugin.Plugin {
	n := &Nuxt{launcher: launcher}
	return plugin.Plugin{
		Name:    Name,
		Summary: "Nuxt applications",
		Doc:     doc,
		Generators: []generator.Descriptor{
			{ID: plugin.ID(Name, "application"), Aliases: []string{"app"}, Description: "Create a Nuxt application", Schema: &ApplicationOptions{}, Generator: generator.Func(generateApplication)},
		},
		Executors: []executor.Descriptor{
			{ID: plugin.ID(Name, "browser"), Description: "Build with nuxi build", Schema: &BrowserOptions{}, Executor: executor.Func(n.browser)},
			{ID: plugin.ID(Name, "server"), Description: "Serve with nuxi dev or nuxi preview", Schema: &ServerOptions{}, Executor: executor.Func(n.server)},
			{ID: plugin.ID(Name, "static"), Description: "Prerender with nuxi generate", Schema: &StaticOptions{}, Executor: executor.Func(n.static)},
		},
	}
}
