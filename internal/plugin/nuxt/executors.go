package nuxt

import (
	"context"
	"strconv"

	"github.com/nxplus/nxplus/internal/bridge"
	"github.com/nxplus/nxplus/internal/executor"
	"github.com/nxplus/nxplus/internal/plugin"
)

// BrowserOptions are the options of the browser executor.
type BrowserOptions struct {
	OutputPath string `json:"outputPath" jsonschema:"required,description=Nitro output directory relative to the workspace root"`
}

// ServerOptions are the options of the server executor.
type ServerOptions struct {
	BuildTarget string `json:"buildTarget" jsonschema:"required,description=Target whose output nuxi preview serves"`
	Dev         *bool  `json:"dev,omitempty" jsonschema:"default=true,description=Run the development server instead of previewing the build"`
	Port        int    `json:"port,omitempty" jsonschema:"default=3000,description=Port to listen on"`
	Host        string `json:"host,omitempty" jsonschema:"description=Host to listen on"`
}

// StaticOptions are the options of the static executor.
type StaticOptions struct {
	OutputPath string `json:"outputPath" jsonschema:"required,description=Output directory relative to the workspace root"`
}

func (n *Nuxt) browser(ctx context.Context, opts executor.Options, ectx *executor.Context) (executor.Handle, error) {
	var o BrowserOptions
	if err := executor.Decode(opts, &o); err != nil {
		return nil, err
	}
	return n.runNuxi(ctx, ectx, "build", o.OutputPath)
}

func (n *Nuxt) static(ctx context.Context, opts executor.Options, ectx *executor.Context) (executor.Handle, error) {
	var o StaticOptions
	if err := executor.Decode(opts, &o); err != nil {
		return nil, err
	}
	return n.runNuxi(ctx, ectx, "generate", o.OutputPath)
}

func (n *Nuxt) runNuxi(ctx context.Context, ectx *executor.Context, command, outputPath string) (executor.Handle, error) {
	projectRoot, err := ectx.ProjectRoot()
	if err != nil {
		return nil, err
	}
	cmd, err := plugin.ToolCommand("nuxi", []string{command, projectRoot},
		bridge.Environment(map[string]string{outputDirEnv: ectx.Abs(outputPath)}),
	)
	if err != nil {
		return nil, err
	}
	return executor.RunTool(ctx, plugin.ToolLauncher(n.launcher, ectx.Root), ectx.Root, cmd, ectx, outputPath)
}

func (n *Nuxt) server(ctx context.Context, opts executor.Options, ectx *executor.Context) (executor.Handle, error) {
	var o ServerOptions
	if err := executor.Decode(opts, &o); err != nil {
		return nil, err
	}
	if o.Port == 0 {
		o.Port = 3000
	}
	projectRoot, err := ectx.ProjectRoot()
	if err != nil {
		return nil, err
	}
	launcher := plugin.ToolLauncher(n.launcher, ectx.Root)

	if o.Dev == nil || *o.Dev {
		cmd, err := plugin.ToolCommand("nuxi", []string{"dev", projectRoot}, bridge.DevServerAddr(o.Host, o.Port))
		if err != nil {
			return nil, err
		}
		return executor.ServeTool(ctx, launcher, ectx.Root, cmd, ectx)
	}

	buildOpts, err := executor.ResolveTargetOptions(ectx, o.BuildTarget, opts, nil)
	if err != nil {
		return nil, err
	}
	var b BrowserOptions
	if err := executor.Decode(buildOpts, &b); err != nil {
		return nil, err
	}
	// Nitro's preview server takes its address from the environment.
	env := map[string]string{
		outputDirEnv: ectx.Abs(b.OutputPath),
		"PORT":       strconv.Itoa(o.Port),
	}
	if o.Host != "" {
		env["HOST"] = o.Host
	}
	cmd, err := plugin.ToolCommand("nuxi", []string{"preview", projectRoot}, bridge.Environment(env))
	if err != nil {
		return nil, err
	}
	return executor.ServeTool(ctx, launcher, ectx.Root, cmd, ectx)
}
