package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nxplus/nxplus/internal/generator"
	"github.com/nxplus/nxplus/internal/install"
	"github.com/nxplus/nxplus/internal/schema"
	"github.com/nxplus/nxplus/internal/ui"
	"github.com/nxplus/nxplus/internal/workspace"
)

var generateCmd = &cobra.Command{
	Use:     "generate <plugin:generator> [name] [--option=value...]",
	Aliases: []string{"g"},
	Short:   "Run a generator",
	Long: `Run a generator against the workspace.

Every --option is passed to the generator; run 'nxplus schema <id>' to see
what a generator accepts. A generator id without a plugin prefix uses
cli.defaultCollection from nxplus.yaml (default @nxplus/vue).

Flags handled by the command itself:
  --dry-run       print the changes as a diff without writing them
  --skip-install  do not install added dependencies

Examples:
  nxplus generate @nxplus/vue:app shop --routing --style=scss
  nxplus g lib ui --directory=shared
  nxplus g @nxplus/vue:component UserCard --project=shop --dry-run`,
	DisableFlagParsing: true,
	RunE:               runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	pos, opts, err := parseArgs(args)
	if err != nil {
		return err
	}
	settings, help := takeSettings(opts)
	if help {
		return cmd.Help()
	}
	if len(pos) == 0 {
		return fmt.Errorf("%w: generator id", ErrMissingArgument)
	}
	if len(pos) > 2 {
		return fmt.Errorf("%w: %s", ErrUnexpectedArgument, strings.Join(pos[2:], " "))
	}
	dryRun := takeBool(opts, "dryRun")
	skipInstall := takeBool(opts, "skipInstall")

	if err := deps.Configure(settings, cmd.ErrOrStderr()); err != nil {
		return err
	}
	desc, err := deps.Generators.Lookup(qualify(pos[0], deps.Config.CLI.DefaultCollection))
	if err != nil {
		return err
	}
	if _, set := opts["name"]; !set && len(pos) == 2 {
		opts["name"] = pos[1]
	}
	if _, set := opts["name"]; !set && requiresName(desc) {
		name, err := ui.PromptInput(cmd.Context(), deps.Theme, deps.Headless, "What name would you like to use?", "my-app")
		if err != nil {
			return err
		}
		opts["name"] = name
	}

	tree := workspace.NewTree(deps.Root, deps.Logger)
	runner := generator.NewRunner(deps.Generators, install.NodeModulesResolver{Root: deps.Root}, deps.Logger)
	out, err := runner.Run(cmd.Context(), tree, desc.ID, opts, generator.RunOptions{DryRun: dryRun})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	printChanges(w, deps.Theme, out.Changes)
	if dryRun {
		_, _ = fmt.Fprint(w, out.Diff)
		_, _ = fmt.Fprintln(w, deps.Theme.Warning.Render("\nNOTE: The --dry-run flag means no changes were made."))
		return nil
	}
	if skipInstall || deps.Config.CLI.SkipInstall {
		return nil
	}
	return installPackages(cmd.Context(), cmd.ErrOrStderr(), out.Task)
}

// qualify prefixes a bare generator name with the default collection.
func qualify(id, collection string) string {
	if strings.Contains(id, ":") || collection == "" {
		return id
	}
	return collection + ":" + id
}

func requiresName(d generator.Descriptor) bool {
	if d.Schema == nil {
		return false
	}
	return slices.Contains(schema.Reflect(d.Schema, d.ID, d.Description).Required, "name")
}

func printChanges(w io.Writer, theme *ui.Theme, changes []workspace.FileChange) {
	for _, c := range changes {
		style := theme.Success
		switch c.Type {
		case workspace.ChangeUpdate:
			style = theme.Warning
		case workspace.ChangeDelete:
			style = theme.Error
		}
		_, _ = fmt.Fprintf(w, "%s %s\n", style.Render(string(c.Type)), c.Path)
	}
}

func installPackages(ctx context.Context, w io.Writer, task install.Task) error {
	var opts []install.QueueOption
	if name := deps.Config.CLI.PackageManager; name != "" {
		pm, err := install.ParsePackageManager(name)
		if err != nil {
			return err
		}
		opts = append(opts, install.WithPackageManager(pm))
	}
	q := install.NewQueue(deps.Installer, deps.Logger, opts...)
	q.Add(task)
	pending := q.Pending()
	if len(pending) == 0 {
		return nil
	}

	sp := ui.NewSpinner(deps.Theme, deps.Headless, w, fmt.Sprintf("Installing packages (%s install)", pending[0].PackageManager))
	err := q.Run(ctx)
	sp.Stop()
	return err
}
