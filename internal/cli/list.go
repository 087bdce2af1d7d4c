package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed plugins with their generators and executors",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	if err := deps.Configure(flagSettings(cmd), cmd.ErrOrStderr()); err != nil {
		return err
	}
	theme := deps.Theme

	out := cmd.OutOrStdout()
	for i, p := range deps.Plugins {
		if i > 0 {
			_, _ = fmt.Fprintln(out)
		}
		_, _ = fmt.Fprintf(out, "%s  %s\n", theme.Title.Render(p.Name), theme.Muted.Render(p.Summary))
		for _, g := range p.Generators {
			_, _ = fmt.Fprintf(out, "  generator  %-32s %s\n", g.ID, theme.Muted.Render(g.Description))
		}
		for _, e := range p.Executors {
			_, _ = fmt.Fprintf(out, "  executor   %-32s %s\n", e.ID, theme.Muted.Render(e.Description))
		}
	}
	return nil
}
