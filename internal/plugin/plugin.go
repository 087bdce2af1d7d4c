// Package plugin holds what every framework plugin shares: the Plugin
// descriptor the CLI lists and installs, and the generator steps each
// application generator repeats (test runner pruning, lint and test
// targets, the Cypress e2e project).
package plugin

import (
	"fmt"

	"github.com/nxplus/nxplus/internal/executor"
	"github.com/nxplus/nxplus/internal/generator"
)

// Plugin is one installable collection of generators and executors.
type Plugin struct {
	// Name is the npm-style collection name, e.g. "@nxplus/vue".
	Name    string
	Summary string
	// Doc is markdown shown by `nxplus describe`.
	Doc        string
	Generators []generator.Descriptor
	Executors  []executor.Descriptor
}

// Install registers the plugin's generators and executors.
func (p Plugin) Install(gens *generator.Registry, execs *executor.Registry) error {
	for _, g := range p.Generators {
		if err := gens.Register(g); err != nil {
			return fmt.Errorf("install %s: %w", p.Name, err)
		}
	}
	for _, e := range p.Executors {
		if err := execs.Register(e); err != nil {
			return fmt.Errorf("install %s: %w", p.Name, err)
		}
	}
	return nil
}

// ID joins a plugin name and a generator or executor name.
func ID(pluginName, name string) string {
	return pluginName + ":" + name
}
