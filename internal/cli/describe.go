package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nxplus/nxplus/internal/ui"
)

var describeCmd = &cobra.Command{
	Use:   "describe <plugin>",
	Short: "Show a plugin's documentation",
	Example: `  nxplus describe @nxplus/vue
  nxplus describe @nxplus/nuxt --no-color`,
	Args: cobra.ExactArgs(1),
	RunE: runDescribe,
}

func init() {
	rootCmd.AddCommand(describeCmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	if err := deps.Configure(flagSettings(cmd), cmd.ErrOrStderr()); err != nil {
		return err
	}
	p, err := deps.Plugin(args[0])
	if err != nil {
		return err
	}
	theme := deps.Theme
	if deps.Headless.IsHeadless() {
		theme = ui.NewTheme(true)
	}
	out, err := ui.RenderMarkdown(theme, p.Doc)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}
