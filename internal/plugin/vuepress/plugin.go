// Package vuepress provides the @nxplus/vuepress plugin.
package vuepress

import (
	"embed"

	"github.com/nxplus/nxplus/internal/executor"
	"github.com/nxplus/nxplus/internal/generator"
	"github.com/nxplus/nxplus/internal/plugin"
)

// Name is the plugin collection name.
const Name = "@nxplus/vuepress"

//go:embed all:files
var files embed.FS

const doc = `# @nxplus/vuepress

VuePress 2 documentation sites. Sources live in ` + "`<project>/docs`" + `;
temp and cache files are kept under ` + "`node_modules/.cache/vuepress`" + `.

## Generators

- **application** (alias ` + "`app`" + `)

## Executors

- **browser**: ` + "`vuepress build`" + ` into ` + "`outputPath`" + `.
- **dev-server**: ` + "`vuepress dev`" + `.
`

// VuePress holds the plugin configuration.
type VuePress struct {
	launcher executor.Launcher
}

// New returns the plugin. A nil launcher runs the workspace's vuepress
// binary.
func New(launcher executor.Launcher) plugin.Plugin {
	v := &VuePress{launcher: launcher}
	return plugin.Plugin{
		Name:    Name,
		Summary: "VuePress documentation sites",
		Doc:     doc,
		Generators: []generator.Descriptor{
			{ID: plugin.ID(Name, "application"), Aliases: []string{"app"}, Description: "Create a VuePress site", Schema: &ApplicationOptions{}, Generator: generator.Func(generateApplication)},
		},
		Executors: []executor.Descriptor{
			{ID: plugin.ID(Name, "browser"), Description: "Build with vuepress build", Schema: &BrowserOptions{}, Executor: executor.Func(v.browser)},
			{ID: plugin.ID(Name, "dev-server"), Description: "Serve with vuepress dev", Schema: &DevServerOptions{}, Executor: executor.Func(v.devServer)},
		},
	}
}
