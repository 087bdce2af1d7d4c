// Package workspace provides the @nxplus/workspace plugin: the
// run-commands executor that lint, test and e2e targets use.
package workspace

import (
	"errors"

	"github.com/nxplus/nxplus/internal/executor"
	"github.com/nxplus/nxplus/internal/plugin"
)

// Name is the plugin collection name.
const Name = "@nxplus/workspace"

// Sentinel errors for the workspace plugin.
var (
	// ErrNoCommands indicates a run-commands target without commands.
	ErrNoCommands = errors.New("workspace: no commands to run")

	// ErrDevServer indicates the dev server an e2e run depends on failed.
	ErrDevServer = errors.New("workspace: dev server did not start")
)

const doc = `# @nxplus/workspace

Generic executors shared by every plugin.

## Executors

- **run-commands**: runs one or more shell-style commands in order.
  Commands are split into words (quotes and ` + "`$VAR`" + ` expansion
  supported, no pipes). When ` + "`devServerTarget`" + ` is set, that target is
  started first and its URL is exported as ` + "`CYPRESS_BASE_URL`" + `.
`

// New returns the plugin. A nil launcher runs commands from the
// workspace's node_modules/.bin or PATH.
func New(launcher executor.Launcher) plugin.Plugin {
	rc := &runCommands{launcher: launcher}
	return plugin.Plugin{
		Name:    Name,
		Summary: "Generic command executors",
		Doc:     doc,
		Executors: []executor.Descriptor{{
			ID:          plugin.RunCommands,
			Description: "Run shell-style commands in sequence",
			Schema:      &RunCommandsOptions{},
			Executor:    rc,
		}},
	}
}
