package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tidwall/gjson"

	"github.com/nxplus/nxplus/internal/executor"
	"github.com/nxplus/nxplus/internal/executor/executortest"
	"github.com/nxplus/nxplus/internal/generator"
	"github.com/nxplus/nxplus/internal/ui"
)

type installCall struct {
	Dir  string
	Argv []string
}

type fakeInstaller struct {
	mu    sync.Mutex
	calls []installCall
}

func (f *fakeInstaller) Run(_ context.Context, dir string, argv []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, installCall{Dir: dir, Argv: argv})
	return nil
}

func newTestDeps(t *testing.T, l executor.Launcher) (*Dependencies, *fakeInstaller) {
	t.Helper()
	inst := &fakeInstaller{}
	d, err := NewDependencies(l, inst)
	if err != nil {
		t.Fatalf("NewDependencies error: %v", err)
	}
	d.Headless.ForceHeadless(true)
	return d, inst
}

func newTestWorkspace(t *testing.T, workspaceJSON string) string {
	t.Helper()
	root := t.TempDir()
	if workspaceJSON == "" {
		workspaceJSON = `{"version":2,"projects":{}}`
	}
	files := map[string]string{
		"workspace.json": workspaceJSON,
		"package.json":   `{"name":"acme","private":true}`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

// execute runs the command tree with d installed and returns stdout.
func execute(t *testing.T, d *Dependencies, args ...string) (string, error) {
	t.Helper()
	SetDeps(d)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestGenerateDryRun(t *testing.T) {
	root := newTestWorkspace(t, "")
	d, inst := newTestDeps(t, nil)

	out, err := execute(t, d, "generate", "@nxplus/vue:app", "shop", "--dry-run", "--root", root, "--no-color")
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	for _, want := range []string{"CREATE apps/shop/src/main.ts", "UPDATE workspace.json", "no changes were made"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if _, err := os.Stat(filepath.Join(root, "apps", "shop")); !os.IsNotExist(err) {
		t.Errorf("dry run wrote files: %v", err)
	}
	if len(inst.calls) != 0 {
		t.Errorf("dry run installed packages: %+v", inst.calls)
	}
}

func TestGenerateCommitsAndInstalls(t *testing.T) {
	root := newTestWorkspace(t, "")
	d, inst := newTestDeps(t, nil)

	// The collection defaults to @nxplus/vue.
	if _, err := execute(t, d, "g", "lib", "ui", "--directory=shared", "--root", root, "--no-color"); err != nil {
		t.Fatalf("generate error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, "workspace.json"))
	if err != nil {
		t.Fatal(err)
	}
	if got := gjson.GetBytes(data, "projects.shared-ui.root").String(); got != "libs/shared/ui" {
		t.Errorf("shared-ui root = %q, want libs/shared/ui", got)
	}
	want := []installCall{{Dir: root, Argv: []string{"npm", "install"}}}
	if diff := cmp.Diff(want, inst.calls); diff != "" {
		t.Errorf("install calls mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateSkipInstall(t *testing.T) {
	root := newTestWorkspace(t, "")
	d, inst := newTestDeps(t, nil)

	if _, err := execute(t, d, "generate", "@nxplus/vite:app", "site", "--skip-install", "--root", root); err != nil {
		t.Fatalf("generate error: %v", err)
	}
	if len(inst.calls) != 0 {
		t.Errorf("install ran with --skip-install: %+v", inst.calls)
	}
}

func TestGenerateErrors(t *testing.T) {
	root := newTestWorkspace(t, "")
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"missing_id", []string{"generate"}, ErrMissingArgument},
		{"extra_positional", []string{"generate", "app", "a", "b"}, ErrUnexpectedArgument},
		{"unknown_generator", []string{"generate", "@nxplus/vue:nope"}, generator.ErrUnknownGenerator},
		{"headless_without_name", []string{"generate", "@nxplus/nuxt:app"}, ui.ErrHeadless},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestDeps(t, nil)
			args := append(tt.args, "--root", root)
			if _, err := execute(t, d, args...); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

const runCommandsWorkspace = `{
  "version": 2,
  "projects": {
    "tools": {
      "root": "tools",
      "targets": {
        "hello": {
          "executor": "@nxplus/workspace:run-commands",
          "options": {"command": "echo hi"}
        }
      }
    }
  }
}`

func TestRunTarget(t *testing.T) {
	root := newTestWorkspace(t, runCommandsWorkspace)
	l := &executortest.Launcher{Output: []string{"hi"}}
	d, _ := newTestDeps(t, l)

	out, err := execute(t, d, "run", "tools:hello", "--root", root, "--no-color")
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if !strings.Contains(out, "✓ tools:hello") {
		t.Errorf("output missing success line:\n%s", out)
	}
	calls := l.Calls()
	if len(calls) != 1 {
		t.Fatalf("launches = %d, want 1", len(calls))
	}
	if diff := cmp.Diff([]string{"echo", "hi"}, calls[0].Argv); diff != "" {
		t.Errorf("argv mismatch (-want +got):\n%s", diff)
	}
}

func TestRunTargetFailure(t *testing.T) {
	root := newTestWorkspace(t, runCommandsWorkspace)
	l := &executortest.Launcher{ExitErr: errors.New("exit status 1")}
	d, _ := newTestDeps(t, l)

	out, err := execute(t, d, "run", "tools:hello", "--root", root, "--no-color")
	if !errors.Is(err, ErrTargetFailed) {
		t.Fatalf("error = %v, want ErrTargetFailed", err)
	}
	if !strings.Contains(out, "✗") {
		t.Errorf("output missing failure line:\n%s", out)
	}
}

func TestRunRequiresWorkspace(t *testing.T) {
	d, _ := newTestDeps(t, nil)
	dir := t.TempDir()
	if _, err := execute(t, d, "run", "tools:hello", "--root", dir); err == nil {
		t.Fatal("run outside a workspace succeeded")
	}
}

func TestList(t *testing.T) {
	root := newTestWorkspace(t, "")
	d, _ := newTestDeps(t, nil)

	out, err := execute(t, d, "list", "--root", root, "--no-color")
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	for _, want := range []string{
		"@nxplus/vue", "@nxplus/nuxt", "@nxplus/vite", "@nxplus/docusaurus", "@nxplus/vuepress", "@nxplus/workspace",
		"@nxplus/vue:application", "@nxplus/vite:dev-server", "@nxplus/workspace:run-commands",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q", want)
		}
	}
}

func TestSchema(t *testing.T) {
	root := newTestWorkspace(t, "")
	d, _ := newTestDeps(t, nil)

	t.Run("generator_with_default_collection", func(t *testing.T) {
		out, err := execute(t, d, "schema", "app", "--root", root)
		if err != nil {
			t.Fatalf("schema error: %v", err)
		}
		if got := gjson.Get(out, "title").String(); got != "@nxplus/vue:application" {
			t.Errorf("title = %q", got)
		}
		if !gjson.Get(out, "properties.routing").Exists() {
			t.Errorf("routing property missing:\n%s", out)
		}
	})

	t.Run("executor", func(t *testing.T) {
		out, err := execute(t, d, "schema", "@nxplus/workspace:run-commands", "--root", root)
		if err != nil {
			t.Fatalf("schema error: %v", err)
		}
		if !gjson.Get(out, "properties.commands").Exists() {
			t.Errorf("commands property missing:\n%s", out)
		}
	})
}

func TestDescribe(t *testing.T) {
	root := newTestWorkspace(t, "")
	d, _ := newTestDeps(t, nil)

	out, err := execute(t, d, "describe", "@nxplus/vue", "--root", root, "--no-color")
	if err != nil {
		t.Fatalf("describe error: %v", err)
	}
	if !strings.Contains(out, "dev-server") {
		t.Errorf("describe output missing executor docs:\n%s", out)
	}

	if _, err := execute(t, d, "describe", "@nxplus/angular", "--root", root); !errors.Is(err, ErrUnknownPlugin) {
		t.Errorf("unknown plugin error = %v, want ErrUnknownPlugin", err)
	}
}

func TestVersion(t *testing.T) {
	d, _ := newTestDeps(t, nil)
	out, err := execute(t, d, "version")
	if err != nil {
		t.Fatalf("version error: %v", err)
	}
	if !strings.HasPrefix(out, "nxplus ") {
		t.Errorf("version output = %q", out)
	}
}
