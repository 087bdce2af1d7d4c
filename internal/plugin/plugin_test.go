package plugin_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/nxplus/nxplus/internal/bridge"
	"github.com/nxplus/nxplus/internal/executor"
	"github.com/nxplus/nxplus/internal/executor/executortest"
	"github.com/nxplus/nxplus/internal/generator"
	"github.com/nxplus/nxplus/internal/install"
	"github.com/nxplus/nxplus/internal/naming"
	"github.com/nxplus/nxplus/internal/plugin"
	"github.com/nxplus/nxplus/internal/plugin/plugintest"
	"github.com/nxplus/nxplus/internal/template"
	"github.com/nxplus/nxplus/internal/workspace"
	"github.com/nxplus/nxplus/pkg/models"
)

func TestInstall(t *testing.T) {
	noop := generator.Func(func(context.Context, models.Options, *generator.Context) (install.Task, error) {
		return install.Task{}, nil
	})
	run := executor.Func(func(context.Context, executor.Options, *executor.Context) (executor.Handle, error) {
		return executor.Completed(executor.Result{Success: true}), nil
	})
	p := plugin.Plugin{
		Name:       "@acme/demo",
		Generators: []generator.Descriptor{{ID: plugin.ID("@acme/demo", "app"), Generator: noop}},
		Executors:  []executor.Descriptor{{ID: plugin.ID("@acme/demo", "build"), Executor: run}},
	}

	gens, execs := generator.NewRegistry(), executor.NewRegistry()
	if err := p.Install(gens, execs); err != nil {
		t.Fatalf("Install error: %v", err)
	}
	if _, err := gens.Lookup("@acme/demo:app"); err != nil {
		t.Errorf("generator not registered: %v", err)
	}
	if _, err := execs.Lookup("@acme/demo:build"); err != nil {
		t.Errorf("executor not registered: %v", err)
	}

	err := p.Install(gens, execs)
	if !errors.Is(err, generator.ErrDuplicateGenerator) {
		t.Errorf("second Install error = %v, want ErrDuplicateGenerator", err)
	}
}

func TestTargets(t *testing.T) {
	lint := plugin.LintTarget("apps/shop/**/*.ts", "apps/shop/**/*.vue")
	if lint.Executor != plugin.RunCommands {
		t.Errorf("lint executor = %q", lint.Executor)
	}
	if got, want := lint.Options["command"], "eslint 'apps/shop/**/*.ts' 'apps/shop/**/*.vue'"; got != want {
		t.Errorf("lint command = %v, want %q", got, want)
	}
	if got, want := plugin.JestTarget("apps/shop").Options["command"], "jest --config apps/shop/jest.config.js"; got != want {
		t.Errorf("jest command = %v, want %q", got, want)
	}
}

func TestTestOptionsDefaults(t *testing.T) {
	var o plugin.TestOptions
	o.Defaults()
	if !o.Jest() || !o.Cypress() {
		t.Errorf("defaults = %+v, want jest and cypress", o)
	}
	o = plugin.TestOptions{UnitTestRunner: plugin.RunnerNone, E2ETestRunner: plugin.RunnerNone}
	o.Defaults()
	if o.Jest() || o.Cypress() {
		t.Errorf("explicit none overridden: %+v", o)
	}
}

func TestScaffold(t *testing.T) {
	fsys := fstest.MapFS{
		"files/app/src/main.ts.tmpl":            {Data: []byte("// {{.ProjectName}}\n")},
		"files/app/src/styles.__style__":        {Data: []byte("body {}\n")},
		"files/app/jest.config.js.tmpl":         {Data: []byte("module.exports = {};\n")},
		"files/app/tests/unit/example.spec.ts":  {Data: []byte("it('works', () => {});\n")},
		"files/extra/__dot__eslintrc.json.tmpl": {Data: []byte(`{"extends":["{{.OffsetFromRoot}}.eslintrc.json"]}`)},
	}
	ns := naming.NormalizedSchema{Name: "shop", ProjectName: "shop", ProjectRoot: "apps/shop", ProjectDirectory: "shop", OffsetFromRoot: "../../"}
	tmplCtx := template.NewTemplateContext(template.WithProject(ns), template.WithStyle("scss"))

	tests := []struct {
		name   string
		runner string
		want   []string
	}{
		{
			name:   "jest",
			runner: plugin.RunnerJest,
			want:   []string{"apps/shop/.eslintrc.json", "apps/shop/jest.config.js", "apps/shop/src/main.ts", "apps/shop/src/styles.scss", "apps/shop/tests/unit/example.spec.ts"},
		},
		{
			name:   "no_unit_tests",
			runner: plugin.RunnerNone,
			want:   []string{"apps/shop/.eslintrc.json", "apps/shop/src/main.ts", "apps/shop/src/styles.scss"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gctx := &generator.Context{Tree: workspace.NewTree(t.TempDir(), nil)}
			rules := []template.PruneRule{plugin.UnitTestPruneRule(tt.runner)}
			if err := plugin.Scaffold(context.Background(), gctx, fsys, ns.ProjectRoot, tmplCtx, rules, "files/app", "files/extra"); err != nil {
				t.Fatalf("Scaffold error: %v", err)
			}
			if diff := cmp.Diff(tt.want, gctx.Tree.StagedFiles("apps/shop")); diff != "" {
				t.Errorf("staged files mismatch (-want +got):\n%s", diff)
			}
			main, err := gctx.Tree.Read("apps/shop/src/main.ts")
			if err != nil || string(main) != "// shop\n" {
				t.Errorf("main.ts = %q, %v", main, err)
			}
		})
	}

	t.Run("missing_source", func(t *testing.T) {
		gctx := &generator.Context{Tree: workspace.NewTree(t.TempDir(), nil)}
		err := plugin.Scaffold(context.Background(), gctx, fsys, "apps/shop", tmplCtx, nil, "files/nope")
		if !errors.Is(err, template.ErrTemplateNotFound) {
			t.Errorf("Scaffold error = %v, want ErrTemplateNotFound", err)
		}
	})
}

func TestToolCommand(t *testing.T) {
	cmd, err := plugin.ToolCommand("vite", []string{"build", "apps/site"},
		bridge.OutDir("--outDir", "/ws/dist/apps/site"),
		bridge.Flag("--mode", ""),
		bridge.Switch("--emptyOutDir", true),
	)
	if err != nil {
		t.Fatalf("ToolCommand error: %v", err)
	}
	want := []string{"vite", "build", "apps/site", "--outDir", "/ws/dist/apps/site", "--emptyOutDir"}
	if diff := cmp.Diff(want, cmd.Argv()); diff != "" {
		t.Errorf("argv mismatch (-want +got):\n%s", diff)
	}

	_, err = plugin.ToolCommand("vite", nil, bridge.Flag("--mode", "a"), bridge.Flag("--mode", "b"))
	if !errors.Is(err, bridge.ErrPatchOrder) {
		t.Errorf("duplicate patches error = %v, want ErrPatchOrder", err)
	}
}

func TestToolLauncher(t *testing.T) {
	fake := &executortest.Launcher{}
	if got := plugin.ToolLauncher(fake, "/ws"); got != fake {
		t.Errorf("ToolLauncher returned %T, want the given launcher", got)
	}
	if got, ok := plugin.ToolLauncher(nil, "/ws").(executor.ExecLauncher); !ok || got.Root != "/ws" {
		t.Errorf("ToolLauncher(nil) = %#v", got)
	}
}

func TestAddCypressProject(t *testing.T) {
	root := plugintest.NewWorkspace(t, nil)
	tree := workspace.NewTree(root, nil)
	gctx := &generator.Context{Tree: tree}
	ns, err := plugin.NormalizeProject(tree, naming.Schema{Name: "shop", Directory: "store"}, models.ProjectTypeApplication)
	if err != nil {
		t.Fatalf("NormalizeProject error: %v", err)
	}

	if err := plugin.AddCypressProject(context.Background(), gctx, ns, plugin.E2EProject{DevServerTarget: "serve", Heading: "Welcome"}); err != nil {
		t.Fatalf("AddCypressProject error: %v", err)
	}
	if err := tree.Commit(); err != nil {
		t.Fatal(err)
	}

	p := plugintest.Project(t, root, "store-shop-e2e")
	if p.Root != "apps/store/shop-e2e" {
		t.Errorf("Root = %q", p.Root)
	}
	e2e := p.Targets["e2e"]
	if got := e2e.Options["devServerTarget"]; got != "store-shop:serve" {
		t.Errorf("devServerTarget = %v", got)
	}
	if got := e2e.Configurations["production"]["devServerTarget"]; got != "store-shop:serve:production" {
		t.Errorf("production devServerTarget = %v", got)
	}
	spec := plugintest.ReadFile(t, root, "apps/store/shop-e2e/src/integration/app.spec.ts")
	if !strings.Contains(spec, "Welcome") {
		t.Errorf("app.spec.ts does not check the heading:\n%s", spec)
	}
}
