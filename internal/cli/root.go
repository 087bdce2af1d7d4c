package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nxplus/nxplus/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "nxplus",
	Short: "Generators and executors for Vue, Nuxt, Vite, Docusaurus and VuePress",
	Long: `nxplus scaffolds framework projects into an Nx-style workspace and runs
their targets.

Generators stage every file and commit only when they succeed. Executors
build and serve projects through esbuild or the framework's own CLI.`,
	Version:       version.GetVersion(),
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute initializes dependencies and runs the root command.
func Execute() error {
	if err := InitDependencies(); err != nil {
		return err
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("nxplus %s\n", version.GetVersion()))

	rootCmd.PersistentFlags().String("root", "", "Workspace root (default: search from the current directory)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
}

// flagSettings reads the global flags of commands that parse flags.
func flagSettings(cmd *cobra.Command) Settings {
	root, _ := cmd.Flags().GetString("root")
	verbose, _ := cmd.Flags().GetBool("verbose")
	noColor, _ := cmd.Flags().GetBool("no-color")
	return Settings{Root: root, Verbose: verbose, NoColor: noColor}
}
