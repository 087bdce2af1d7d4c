package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nxplus/nxplus/internal/generator"
	"github.com/nxplus/nxplus/internal/schema"
)

var schemaCmd = &cobra.Command{
	Use:   "schema <generator-or-executor-id>",
	Short: "Print the JSON schema of a generator's or executor's options",
	Example: `  nxplus schema @nxplus/vue:application
  nxplus schema @nxplus/vite:dev-server`,
	Args: cobra.ExactArgs(1),
	RunE: runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, args []string) error {
	if err := deps.Configure(flagSettings(cmd), cmd.ErrOrStderr()); err != nil {
		return err
	}
	id := args[0]

	var v any
	var title, description string
	if g, err := deps.Generators.Lookup(qualify(id, deps.Config.CLI.DefaultCollection)); err == nil {
		v, title, description = g.Schema, g.ID, g.Description
	} else if !errors.Is(err, generator.ErrUnknownGenerator) {
		return err
	} else {
		e, err := deps.Executors.Lookup(id)
		if err != nil {
			return err
		}
		v, title, description = e.Schema, e.ID, e.Description
	}
	if v == nil {
		return fmt.Errorf("%s takes no options", title)
	}

	data, err := schema.Marshal(schema.Reflect(v, title, description))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
