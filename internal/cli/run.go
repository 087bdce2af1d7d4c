package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nxplus/nxplus/internal/executor"
	"github.com/nxplus/nxplus/internal/workspace"
)

var runCmd = &cobra.Command{
	Use:   "run <project:target[:configuration]> [--option=value...]",
	Short: "Run a project target",
	Long: `Run a target defined in workspace.json.

Extra --option flags override the target's options. Values are read as
booleans, numbers or JSON when they parse as such.

Examples:
  nxplus run shop:build:production
  nxplus run shop:serve --port=4300
  nxplus run shop:build --configuration=production --define='{"API":"/v2"}'`,
	DisableFlagParsing: true,
	RunE:               runTarget,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runTarget(cmd *cobra.Command, args []string) error {
	pos, opts, err := parseArgs(args)
	if err != nil {
		return err
	}
	settings, help := takeSettings(opts)
	if help {
		return cmd.Help()
	}
	if len(pos) != 1 {
		return fmt.Errorf("%w: want exactly one project:target", ErrMissingArgument)
	}
	target, err := workspace.ParseTargetString(pos[0])
	if err != nil {
		return err
	}
	if c := takeString(opts, "configuration"); c != "" {
		target.Configuration = c
	}

	settings.RequireWorkspace = true
	if err := deps.Configure(settings, cmd.ErrOrStderr()); err != nil {
		return err
	}
	ws, err := workspace.LoadWorkspace(deps.Root)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	host := &executor.Host{
		Root:      deps.Root,
		Workspace: ws,
		Registry:  deps.Executors,
		Logger:    deps.Logger,
		Stdout:    cmd.OutOrStdout(),
	}
	h, err := host.Start(ctx, target, opts)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	ok := executor.Drive(ctx, h, func(r executor.Result) {
		switch {
		case !r.Success && r.Error != nil:
			_, _ = fmt.Fprintln(w, deps.Theme.Error.Render("✗ "+r.Error.Error()))
		case !r.Success:
			_, _ = fmt.Fprintln(w, deps.Theme.Error.Render("✗ "+target.String()+" failed"))
		case r.BaseURL != "":
			_, _ = fmt.Fprintln(w, deps.Theme.Success.Render("➜ ")+"Serving "+target.String()+" at "+r.BaseURL)
		case r.OutputPath != "":
			_, _ = fmt.Fprintln(w, deps.Theme.Success.Render("✓ ")+target.String()+" → "+r.OutputPath)
		default:
			_, _ = fmt.Fprintln(w, deps.Theme.Success.Render("✓ ")+target.String())
		}
	})
	if !ok {
		return fmt.Errorf("%w: %s", ErrTargetFailed, target)
	}
	return nil
}
