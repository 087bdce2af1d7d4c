package vite

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/nxplus/nxplus/internal/bridge"
	"github.com/nxplus/nxplus/internal/executor"
	"github.com/nxplus/nxplus/internal/plugin"
)

// BuildOptions are the options of the build executor.
type BuildOptions struct {
	OutputPath string `json:"outputPath" jsonschema:"required,description=Output directory relative to the workspace root"`
	Config     string `json:"config,omitempty" jsonschema:"description=Vite config file relative to the workspace root"`
	Mode       string `json:"mode,omitempty" jsonschema:"description=Vite mode"`
	Base       string `json:"base,omitempty" jsonschema:"description=Public base path"`
	SourceMap  bool   `json:"sourceMap,omitempty" jsonschema:"description=Emit source maps"`
}

// DevServerOptions are the options of the dev-server executor.
type DevServerOptions struct {
	BuildTarget string `json:"buildTarget" jsonschema:"required,description=Target whose config and mode the server uses"`
	Port        int    `json:"port,omitempty" jsonschema:"default=3000,description=Port to listen on"`
	Host        string `json:"host,omitempty" jsonschema:"description=Host to listen on"`
	Mode        string `json:"mode,omitempty" jsonschema:"description=Overrides the build mode"`
}

var devServerOverrides = []string{"mode"}

func (v *Vite) build(ctx context.Context, opts executor.Options, ectx *executor.Context) (executor.Handle, error) {
	var o BuildOptions
	if err := executor.Decode(opts, &o); err != nil {
		return nil, err
	}
	projectRoot, err := ectx.ProjectRoot()
	if err != nil {
		return nil, err
	}
	cmd, err := plugin.ToolCommand("vite", []string{"build", projectRoot},
		configFlag(ectx, o.Config),
		bridge.OutDir("--outDir", ectx.Abs(o.OutputPath)),
		bridge.Switch("--emptyOutDir", true),
		bridge.Flag("--mode", o.Mode),
		bridge.Flag("--base", o.Base),
		bridge.Switch("--sourcemap", o.SourceMap),
	)
	if err != nil {
		return nil, err
	}
	return executor.RunTool(ctx, plugin.ToolLauncher(v.launcher, ectx.Root), ectx.Root, cmd, ectx, o.OutputPath)
}

func (v *Vite) devServer(ctx context.Context, opts executor.Options, ectx *executor.Context) (executor.Handle, error) {
	var o DevServerOptions
	if err := executor.Decode(opts, &o); err != nil {
		return nil, err
	}
	if o.Port == 0 {
		o.Port = 3000
	}
	buildOpts, err := executor.ResolveTargetOptions(ectx, o.BuildTarget, opts, devServerOverrides)
	if err != nil {
		return nil, err
	}
	var b BuildOptions
	if err := executor.Decode(buildOpts, &b); err != nil {
		return nil, err
	}
	projectRoot, err := ectx.ProjectRoot()
	if err != nil {
		return nil, err
	}
	cmd, err := plugin.ToolCommand("vite", []string{projectRoot},
		configFlag(ectx, b.Config),
		bridge.DevServerAddr(o.Host, o.Port),
		bridge.Switch("--strictPort", true),
		bridge.Flag("--mode", b.Mode),
		bridge.Flag("--base", b.Base),
	)
	if err != nil {
		return nil, err
	}
	ectx.Log().Debug("vite dev server", "port", strconv.Itoa(o.Port), "buildTarget", o.BuildTarget)
	return executor.ServeTool(ctx, plugin.ToolLauncher(v.launcher, ectx.Root), ectx.Root, cmd, ectx)
}

// configFlag passes the target's config file; without one vite looks in
// the project root.
func configFlag(ectx *executor.Context, config string) bridge.Patch[*bridge.Command] {
	if config == "" {
		return bridge.Flag("--config", "")
	}
	return bridge.Patch[*bridge.Command]{
		Name:   "config",
		Writes: []bridge.Section{bridge.SectionArgs},
		Apply: func(c *bridge.Command) error {
			abs := ectx.Abs(config)
			if _, err := os.Stat(abs); err != nil {
				return fmt.Errorf("%w: config %s does not exist", bridge.ErrInvalidOption, config)
			}
			c.SetFlag("--config", abs)
			return nil
		},
	}
}
