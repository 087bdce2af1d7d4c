package plugin

import (
	"context"
	"io/fs"

	"github.com/nxplus/nxplus/internal/bridge"
	"github.com/nxplus/nxplus/internal/executor"
	"github.com/nxplus/nxplus/internal/generator"
	"github.com/nxplus/nxplus/internal/template"
)

// ToolLauncher returns l, or a launcher resolving tools from the
// workspace at root when l is nil.
func ToolLauncher(l executor.Launcher, root string) executor.Launcher {
	if l != nil {
		return l
	}
	return executor.ExecLauncher{Root: root}
}

// ToolCommand builds "name args..." and applies patches in order.
func ToolCommand(name string, args []string, patches ...bridge.Patch[*bridge.Command]) (*bridge.Command, error) {
	cmd := bridge.NewCommand(name, args...)
	if err := bridge.NewPipeline(patches...).Apply(cmd); err != nil {
		return nil, err
	}
	return cmd, nil
}

// Scaffold renders every template directory in srcs into dest, then
// applies the prune rules to what was rendered.
func Scaffold(ctx context.Context, gctx *generator.Context, fsys fs.FS, dest string, tmplCtx *template.TemplateContext, rules []template.PruneRule, srcs ...string) error {
	sc := template.NewScaffolder(fsys, gctx.Log())
	for _, src := range srcs {
		if _, err := sc.Generate(ctx, gctx.Tree, src, dest, tmplCtx); err != nil {
			return err
		}
	}
	if len(rules) == 0 {
		return nil
	}
	_, err := template.Prune(gctx.Tree, dest, rules)
	return err
}
