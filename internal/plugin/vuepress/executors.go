package vuepress

import (
	"context"
	"path/filepath"

	"github.com/nxplus/nxplus/internal/bridge"
	"github.com/nxplus/nxplus/internal/executor"
	"github.com/nxplus/nxplus/internal/plugin"
)

const tool = "vuepress"

// BrowserOptions are the options of the browser executor.
type BrowserOptions struct {
	OutputPath string `json:"outputPath" jsonschema:"required,description=Output directory relative to the workspace root"`
	Config     string `json:"config,omitempty" jsonschema:"description=Config file relative to the workspace root"`
	CleanCache bool   `json:"cleanCache,omitempty" jsonschema:"description=Clear the cache before building"`
}

// DevServerOptions are the options of the dev-server executor.
type DevServerOptions struct {
	Port       int    `json:"port,omitempty" jsonschema:"default=8080,description=Port to listen on"`
	Host       string `json:"host,omitempty" jsonschema:"description=Host to listen on"`
	Config     string `json:"config,omitempty" jsonschema:"description=Config file relative to the workspace root"`
	CleanCache bool   `json:"cleanCache,omitempty" jsonschema:"description=Clear the cache before starting"`
}

func (v *VuePress) browser(ctx context.Context, opts executor.Options, ectx *executor.Context) (executor.Handle, error) {
	var o BrowserOptions
	if err := executor.Decode(opts, &o); err != nil {
		return nil, err
	}
	docs, err := docsDir(ectx)
	if err != nil {
		return nil, err
	}
	cmd, err := plugin.ToolCommand(tool, []string{"build", docs},
		bridge.OutDir("--dest", ectx.Abs(o.OutputPath)),
		bridge.CacheDir(ectx.Root, tool, ectx.ProjectName, "--cache"),
		bridge.Flag("--temp", tempDir(ectx)),
		bridge.Flag("--config", configPath(ectx, o.Config)),
		bridge.Switch("--clean-cache", o.CleanCache),
	)
	if err != nil {
		return nil, err
	}
	return executor.RunTool(ctx, plugin.ToolLauncher(v.launcher, ectx.Root), ectx.Root, cmd, ectx, o.OutputPath)
}

func (v *VuePress) devServer(ctx context.Context, opts executor.Options, ectx *executor.Context) (executor.Handle, error) {
	var o DevServerOptions
	if err := executor.Decode(opts, &o); err != nil {
		return nil, err
	}
	if o.Port == 0 {
		o.Port = 8080
	}
	docs, err := docsDir(ectx)
	if err != nil {
		return nil, err
	}
	cmd, err := plugin.ToolCommand(tool, []string{"dev", docs},
		bridge.DevServerAddr(o.Host, o.Port),
		bridge.CacheDir(ectx.Root, tool, ectx.ProjectName, "--cache"),
		bridge.Flag("--temp", tempDir(ectx)),
		bridge.Flag("--config", configPath(ectx, o.Config)),
		bridge.Switch("--clean-cache", o.CleanCache),
	)
	if err != nil {
		return nil, err
	}
	return executor.ServeTool(ctx, plugin.ToolLauncher(v.launcher, ectx.Root), ectx.Root, cmd, ectx)
}

func docsDir(ectx *executor.Context) (string, error) {
	root, err := ectx.ProjectRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "docs"), nil
}

func tempDir(ectx *executor.Context) string {
	return bridge.CachePath(ectx.Root, tool+"-temp", ectx.ProjectName)
}

func configPath(ectx *executor.Context, config string) string {
	if config == "" {
		return ""
	}
	return ectx.Abs(config)
}
