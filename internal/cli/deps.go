// Package cli provides the Cobra command tree and dependency injection
// wiring for the nxplus CLI. This file defines the Dependencies struct
// (Composition Root) that wires all domain modules together.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nxplus/nxplus/internal/config"
	"github.com/nxplus/nxplus/internal/executor"
	"github.com/nxplus/nxplus/internal/generator"
	"github.com/nxplus/nxplus/internal/install"
	"github.com/nxplus/nxplus/internal/plugin"
	"github.com/nxplus/nxplus/internal/plugin/docusaurus"
	"github.com/nxplus/nxplus/internal/plugin/nuxt"
	"github.com/nxplus/nxplus/internal/plugin/vite"
	"github.com/nxplus/nxplus/internal/plugin/vue"
	"github.com/nxplus/nxplus/internal/plugin/vuepress"
	wsplugin "github.com/nxplus/nxplus/internal/plugin/workspace"
	"github.com/nxplus/nxplus/internal/ui"
	"github.com/nxplus/nxplus/internal/workspace"
)

// Dependencies holds every service the commands use. This is the
// Composition Root: the only place where concrete types are instantiated
// and wired together.
type Dependencies struct {
	Plugins    []plugin.Plugin
	Generators *generator.Registry
	Executors  *executor.Registry
	// Launcher starts framework tools. Nil runs the workspace's binaries.
	Launcher  executor.Launcher
	Installer install.Runner
	Headless  *ui.HeadlessManager

	// Set by Configure.
	Root   string
	Config *config.Config
	Theme  *ui.Theme
	Logger *slog.Logger
}

// deps is the global dependencies instance, initialized by InitDependencies.
var deps *Dependencies

// InitDependencies creates the registries and installs every plugin.
// Workspace-dependent state is filled in later by Configure.
func InitDependencies() error {
	d, err := NewDependencies(nil, install.ExecRunner{})
	if err != nil {
		return err
	}
	deps = d
	return nil
}

// NewDependencies installs the built-in plugins into fresh registries.
func NewDependencies(launcher executor.Launcher, installer install.Runner) (*Dependencies, error) {
	d := &Dependencies{
		Plugins: []plugin.Plugin{
			vue.New(),
			vite.New(launcher),
			nuxt.New(launcher),
			docusaurus.New(launcher),
			vuepress.New(launcher),
			wsplugin.New(launcher),
		},
		Generators: generator.NewRegistry(),
		Executors:  executor.NewRegistry(),
		Launcher:   launcher,
		Installer:  installer,
		Headless:   ui.NewHeadlessManager(),
		Theme:      ui.NewTheme(false),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, p := range d.Plugins {
		if err := p.Install(d.Generators, d.Executors); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// GetDeps returns the current Dependencies instance.
func GetDeps() *Dependencies {
	return deps
}

// SetDeps replaces the global dependencies (used for testing).
func SetDeps(d *Dependencies) {
	deps = d
}

// Settings are the global options every command accepts.
type Settings struct {
	Root    string
	Verbose bool
	NoColor bool
	// RequireWorkspace fails when no workspace.json or nx.json is found.
	// Otherwise the working directory is used.
	RequireWorkspace bool
}

// Configure resolves the workspace root, loads nxplus.yaml and builds the
// logger and theme. Logs go to stderr.
func (d *Dependencies) Configure(s Settings, stderr io.Writer) error {
	root, err := resolveRoot(s)
	if err != nil {
		return err
	}
	cfg, err := config.Load(root, nil)
	if err != nil {
		return err
	}
	if s.Verbose {
		cfg.Log.Level = "debug"
	}
	if s.NoColor {
		cfg.Log.NoColor = true
	}

	d.Root = root
	d.Config = cfg
	d.Theme = ui.NewTheme(cfg.Log.NoColor)
	d.Logger = newLogger(cfg.Log, stderr)
	d.Logger.Debug("workspace configured", "root", root, "config", config.FileName)
	return nil
}

func resolveRoot(s Settings) (string, error) {
	start := s.Root
	if start == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		start = cwd
	}
	root, err := workspace.FindRoot(start)
	if err == nil {
		return root, nil
	}
	if s.RequireWorkspace || !errors.Is(err, workspace.ErrNotInWorkspace) {
		return "", err
	}
	return filepath.Abs(start)
}

func newLogger(c config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Plugin returns the installed plugin with the given name.
func (d *Dependencies) Plugin(name string) (plugin.Plugin, error) {
	for _, p := range d.Plugins {
		if p.Name == name {
			return p, nil
		}
	}
	return plugin.Plugin{}, fmt.Errorf("%w: %s", ErrUnknownPlugin, name)
}
