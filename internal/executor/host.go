package executor

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/nxplus/nxplus/internal/schema"
	"github.com/nxplus/nxplus/internal/workspace"
)

// Host resolves targets to executors and drives their handles.
type Host struct {
	Root      string
	Workspace *workspace.Workspace
	Registry  *Registry
	Logger    *slog.Logger
	Stdout    io.Writer
}

// Start resolves target, merges its options with overrides, validates them
// against the executor's schema and starts the executor.
func (h *Host) Start(ctx context.Context, target workspace.Target, overrides Options) (Handle, error) {
	def, err := h.Workspace.TargetDefinition(target)
	if err != nil {
		return nil, err
	}
	desc, err := h.Registry.Lookup(def.Executor)
	if err != nil {
		return nil, err
	}

	opts, err := h.Workspace.ReadTargetOptions(target)
	if err != nil {
		return nil, err
	}
	opts = workspace.MergeOptions(opts, overrides)

	if desc.Schema != nil {
		v, err := schema.Compile(schema.Reflect(desc.Schema, desc.ID, desc.Description))
		if err != nil {
			return nil, fmt.Errorf("%s schema: %w", desc.ID, err)
		}
		if err := v.Validate(opts); err != nil {
			return nil, fmt.Errorf("%s: %w", target, err)
		}
	}

	configuration := target.Configuration
	if configuration == "" {
		configuration = def.DefaultConfiguration
	}
	ectx := &Context{
		Root:              h.Root,
		Workspace:         h.Workspace,
		ProjectName:       target.Project,
		TargetName:        target.Target,
		ConfigurationName: configuration,
		Logger:            h.Logger,
		Stdout:            h.Stdout,
		StartTarget:       h.Start,
	}
	ectx.Log().Debug("starting executor", "target", target.String(), "executor", desc.ID)
	return desc.Executor.Run(ctx, opts, ectx)
}

// Drive consumes a handle's results, calling onResult for each, until the
// handle completes. When ctx is cancelled the handle is stopped and Drive
// keeps draining until it completes. It reports whether at least one
// result arrived and every result succeeded.
func Drive(ctx context.Context, h Handle, onResult func(Result)) bool {
	results := h.Results()
	cancelled := ctx.Done()
	seen, ok := false, true

	for {
		select {
		case r, open := <-results:
			if !open {
				<-h.Done()
				return seen && ok
			}
			seen = true
			if !r.Success {
				ok = false
			}
			if onResult != nil {
				onResult(r)
			}
		case <-cancelled:
			cancelled = nil
			_ = h.Stop()
		}
	}
}
