// Package plugintest provides workspace fixtures for plugin tests.
package plugintest

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/nxplus/nxplus/internal/executor"
	"github.com/nxplus/nxplus/internal/generator"
	"github.com/nxplus/nxplus/internal/plugin"
	"github.com/nxplus/nxplus/internal/workspace"
	"github.com/nxplus/nxplus/pkg/models"
)

// NewWorkspace writes files into a temporary workspace and returns its
// root. A minimal package.json is added unless files has one.
func NewWorkspace(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	all := map[string]string{"package.json": `{"name":"acme","private":true}`}
	for k, v := range files {
		all[k] = v
	}
	for name, content := range all {
		WriteFile(t, root, name, content)
	}
	return root
}

// WriteFile writes a workspace-relative file, creating parent directories.
func WriteFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// Generate runs the generator id of p against the workspace at root and
// commits the result.
func Generate(t *testing.T, p plugin.Plugin, root, id string, opts models.Options) error {
	t.Helper()
	return GenerateWithLogger(t, p, root, id, opts, nil)
}

// GenerateWithLogger is Generate with the generator logging to logger.
func GenerateWithLogger(t *testing.T, p plugin.Plugin, root, id string, opts models.Options, logger *slog.Logger) error {
	t.Helper()
	gens := generator.NewRegistry()
	if err := p.Install(gens, executor.NewRegistry()); err != nil {
		t.Fatalf("Install error: %v", err)
	}
	tree := workspace.NewTree(root, logger)
	_, err := generator.NewRunner(gens, nil, logger).Run(context.Background(), tree, id, opts, generator.RunOptions{})
	return err
}

// Project loads a project configuration from workspace.json on disk.
func Project(t *testing.T, root, name string) models.ProjectConfiguration {
	t.Helper()
	ws, err := workspace.LoadWorkspace(root)
	if err != nil {
		t.Fatalf("LoadWorkspace error: %v", err)
	}
	p, err := ws.Project(name)
	if err != nil {
		t.Fatalf("Project(%q) error: %v", name, err)
	}
	return p
}

// ReadFile returns the content of a workspace-relative file.
func ReadFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}

// Exists reports whether a workspace-relative path exists.
func Exists(root, rel string) bool {
	_, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	return err == nil
}

// ExecutorContext returns a context for running a target of project,
// with the workspace loaded from disk and output discarded.
func ExecutorContext(t *testing.T, root, project string) *executor.Context {
	t.Helper()
	ws, err := workspace.LoadWorkspace(root)
	if err != nil {
		t.Fatalf("LoadWorkspace error: %v", err)
	}
	return &executor.Context{Root: root, Workspace: ws, ProjectName: project, Stdout: io.Discard}
}

// Collect drains a handle and returns every result it sent.
func Collect(h executor.Handle) []executor.Result {
	var out []executor.Result
	for r := range h.Results() {
		out = append(out, r)
	}
	<-h.Done()
	return out
}
