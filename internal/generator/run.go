package generator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/nxplus/nxplus/internal/install"
	"github.com/nxplus/nxplus/internal/schema"
	"github.com/nxplus/nxplus/internal/workspace"
	"github.com/nxplus/nxplus/pkg/models"
)

// RunOptions controls a single generator run.
type RunOptions struct {
	// DryRun stages and reports changes without writing them.
	DryRun bool
	// SkipFormat leaves staged JSON files as the generator wrote them. A
	// generator option "skipFormat": true has the same effect.
	SkipFormat bool
}

// Outcome reports what a generator run staged.
type Outcome struct {
	Changes []workspace.FileChange
	// Diff is a unified diff of the changes, set for dry runs.
	Diff string
	Task install.Task
}

// Runner validates options, runs a generator against a tree and commits or
// discards the result.
type Runner struct {
	registry *Registry
	resolver install.ModuleResolver
	logger   *slog.Logger
}

// NewRunner creates a Runner. A nil resolver disables peer checks.
func NewRunner(registry *Registry, resolver install.ModuleResolver, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{registry: registry, resolver: resolver, logger: logger}
}

// Run executes the generator registered under id. Option errors fail
// before the generator is called. If the generator fails, every staged
// change is discarded and nothing reaches disk.
func (r *Runner) Run(ctx context.Context, tree *workspace.Tree, id string, opts models.Options, ro RunOptions) (Outcome, error) {
	desc, err := r.registry.Lookup(id)
	if err != nil {
		return Outcome{}, err
	}
	if desc.Schema != nil {
		v, err := schema.Compile(schema.Reflect(desc.Schema, desc.ID, desc.Description))
		if err != nil {
			return Outcome{}, fmt.Errorf("%s schema: %w", desc.ID, err)
		}
		if err := v.Validate(opts); err != nil {
			return Outcome{}, fmt.Errorf("%s: %w", desc.ID, err)
		}
	}

	gctx := &Context{Tree: tree, Logger: r.logger.With("generator", desc.ID), Resolver: r.resolver}
	task, err := desc.Generator.Generate(ctx, opts, gctx)
	if err != nil {
		tree.Discard()
		return Outcome{}, fmt.Errorf("%s: %w", desc.ID, err)
	}
	if err := ctx.Err(); err != nil {
		tree.Discard()
		return Outcome{}, err
	}

	if skip, _ := opts["skipFormat"].(bool); skip {
		ro.SkipFormat = true
	}
	if !ro.SkipFormat {
		if err := FormatJSON(tree); err != nil {
			tree.Discard()
			return Outcome{}, err
		}
	}

	changes := tree.Changes()
	if len(changes) == 0 {
		r.logger.Info("generator staged no changes", "generator", desc.ID)
	}
	out := Outcome{Changes: changes, Task: task}

	if ro.DryRun {
		diff, err := Diff(tree)
		tree.Discard()
		if err != nil {
			return Outcome{}, err
		}
		out.Diff = diff
		out.Task.Changed = false
		return out, nil
	}

	if err := tree.Commit(); err != nil {
		return Outcome{}, err
	}
	r.logger.Debug("generator committed", "generator", desc.ID, "files", len(changes))
	return out, nil
}

// FormatJSON pretty-prints every staged .json file. Files that are not
// valid JSON, such as tsconfig files with comments, are left alone.
func FormatJSON(tree *workspace.Tree) error {
	for _, p := range tree.StagedFiles("") {
		if path.Ext(p) != ".json" {
			continue
		}
		data, err := tree.Read(p)
		if err != nil {
			return fmt.Errorf("format %s: %w", p, err)
		}
		if !gjson.ValidBytes(data) {
			continue
		}
		if err := tree.Write(p, pretty.Pretty(data)); err != nil {
			return err
		}
	}
	return nil
}
