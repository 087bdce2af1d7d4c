package workspace

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"github.com/mattn/go-shellwords"

	"github.com/nxplus/nxplus/internal/bridge"
	"github.com/nxplus/nxplus/internal/executor"
	"github.com/nxplus/nxplus/internal/plugin"
	ws "github.com/nxplus/nxplus/internal/workspace"
)

// defaultBaseURLEnv is the variable Cypress reads its base URL from.
const defaultBaseURLEnv = "CYPRESS_BASE_URL"

// RunCommandsOptions configures the run-commands executor.
type RunCommandsOptions struct {
	Command  string   `json:"command,omitempty" jsonschema:"description=Command to run"`
	Commands []string `json:"commands,omitempty" jsonschema:"description=Commands to run in order"`
	// Cwd is relative to the workspace root.
	Cwd  string            `json:"cwd,omitempty" jsonschema:"description=Working directory relative to the workspace root"`
	Args string            `json:"args,omitempty" jsonschema:"description=Extra arguments appended to every command"`
	Env  map[string]string `json:"env,omitempty" jsonschema:"description=Environment variables for every command"`

	DevServerTarget string `json:"devServerTarget,omitempty" jsonschema:"description=Target started before the commands run and stopped afterwards"`
	BaseURLEnv      string `json:"baseUrlEnv,omitempty" jsonschema:"description=Variable receiving the dev server URL,default=CYPRESS_BASE_URL"`
}

func (o RunCommandsOptions) commands() []string {
	var out []string
	if strings.TrimSpace(o.Command) != "" {
		out = append(out, o.Command)
	}
	for _, c := range o.Commands {
		if strings.TrimSpace(c) != "" {
			out = append(out, c)
		}
	}
	return out
}

type runCommands struct {
	launcher executor.Launcher
}

// Run parses every command up front, starts the dev server if asked, then
// runs the commands one after another, stopping at the first failure.
func (r *runCommands) Run(ctx context.Context, opts executor.Options, ectx *executor.Context) (executor.Handle, error) {
	var o RunCommandsOptions
	if err := executor.Decode(opts, &o); err != nil {
		return nil, err
	}
	lines := o.commands()
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: set command or commands", ErrNoCommands)
	}
	env := maps.Clone(o.Env)
	if env == nil {
		env = map[string]string{}
	}
	cmds := make([]*bridge.Command, 0, len(lines))
	for _, line := range lines {
		cmd, err := parseCommand(line, o.Args, env)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}

	var server executor.Handle
	if o.DevServerTarget != "" {
		url, h, err := startDevServer(ctx, ectx, o.DevServerTarget)
		if err != nil {
			return nil, err
		}
		server = h
		key := o.BaseURLEnv
		if key == "" {
			key = defaultBaseURLEnv
		}
		for _, c := range cmds {
			c.Env[key] = url
		}
	}

	launcher := plugin.ToolLauncher(r.launcher, ectx.Root)
	dir := ectx.Abs(o.Cwd)

	lt, runCtx := executor.NewLifetime(ctx, nil)
	go func() {
		defer lt.Finish()
		if server != nil {
			defer func() {
				_ = server.Stop()
				<-server.Done()
			}()
		}
		for _, cmd := range cmds {
			res := runOne(runCtx, launcher, dir, cmd, ectx)
			if !res.Success {
				lt.Emit(res)
				return
			}
		}
		lt.Emit(executor.Result{Success: true})
	}()
	return lt, nil
}

// parseCommand splits a command line into words. Leading NAME=value words
// become environment variables of that command only.
func parseCommand(line, extra string, env map[string]string) (*bridge.Command, error) {
	if extra != "" {
		line += " " + extra
	}
	p := shellwords.NewParser()
	p.ParseEnv = true
	envs, args, err := p.ParseWithEnvs(line)
	if err != nil {
		return nil, fmt.Errorf("parse command %q: %w", line, err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: %q has no program", ErrNoCommands, line)
	}
	cmd := bridge.NewCommand(args[0], args[1:]...)
	maps.Copy(cmd.Env, env)
	for _, kv := range envs {
		if k, v, ok := strings.Cut(kv, "="); ok {
			cmd.Env[k] = v
		}
	}
	return cmd, nil
}

// runOne runs one command to completion and returns its result.
func runOne(ctx context.Context, l executor.Launcher, dir string, cmd *bridge.Command, ectx *executor.Context) executor.Result {
	h, err := executor.RunTool(ctx, l, dir, cmd, ectx, "")
	if err != nil {
		return executor.Result{Success: false, Error: err}
	}
	res, ok := <-h.Results()
	<-h.Done()
	if !ok {
		return executor.Result{Success: false, Error: ctx.Err()}
	}
	return res
}

// startDevServer starts target through the host and waits for its first
// result.
func startDevServer(ctx context.Context, ectx *executor.Context, target string) (string, executor.Handle, error) {
	if ectx.StartTarget == nil {
		return "", nil, fmt.Errorf("%w: %s cannot be started outside the host", ErrDevServer, target)
	}
	t, err := ws.ParseTargetString(target)
	if err != nil {
		return "", nil, err
	}
	h, err := ectx.StartTarget(ctx, t, nil)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %s: %w", ErrDevServer, target, err)
	}
	var first executor.Result
	select {
	case r, ok := <-h.Results():
		if ok {
			first = r
		}
	case <-ctx.Done():
		_ = h.Stop()
		return "", nil, ctx.Err()
	}
	if !first.Success || first.BaseURL == "" {
		_ = h.Stop()
		<-h.Done()
		if first.Error != nil {
			return "", nil, fmt.Errorf("%w: %s: %w", ErrDevServer, target, first.Error)
		}
		return "", nil, fmt.Errorf("%w: %s", ErrDevServer, target)
	}
	ectx.Log().Info("dev server started", "target", target, "url", first.BaseURL)
	return first.BaseURL, h, nil
}
