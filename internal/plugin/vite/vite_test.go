package vite

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tidwall/gjson"

	"github.com/nxplus/nxplus/internal/bridge"
	"github.com/nxplus/nxplus/internal/executor/executortest"
	"github.com/nxplus/nxplus/internal/plugin/plugintest"
	"github.com/nxplus/nxplus/pkg/models"
)

func TestApplication(t *testing.T) {
	root := plugintest.NewWorkspace(t, nil)
	opts := models.Options{"name": "site", "style": "scss", "tags": "scope:web, type:app"}
	if err := plugintest.Generate(t, New(nil), root, "@nxplus/vite:app", opts); err != nil {
		t.Fatalf("generate error: %v", err)
	}

	for _, f := range []string{"index.html", "vite.config.ts", "src/main.ts", "src/App.vue", "src/components/HelloWorld.vue", "src/styles.scss", "jest.config.js", "tests/unit/example.spec.ts"} {
		if !plugintest.Exists(root, "apps/site/"+f) {
			t.Errorf("missing apps/site/%s", f)
		}
	}
	hello := plugintest.ReadFile(t, root, "apps/site/src/components/HelloWorld.vue")
	if !strings.Contains(hello, "<h1>{{ msg }}</h1>") {
		t.Errorf("HelloWorld.vue interpolation not rendered:\n%s", hello)
	}
	if main := plugintest.ReadFile(t, root, "apps/site/src/main.ts"); !strings.Contains(main, "import './styles.scss';") {
		t.Errorf("main.ts does not import the stylesheet:\n%s", main)
	}

	p := plugintest.Project(t, root, "site")
	if diff := cmp.Diff([]string{"scope:web", "type:app"}, p.Tags); diff != "" {
		t.Errorf("Tags mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"build", "lint", "serve", "test"}, p.TargetNames()); diff != "" {
		t.Errorf("targets mismatch (-want +got):\n%s", diff)
	}
	if got := p.Targets["build"].Options["outputPath"]; got != "dist/apps/site" {
		t.Errorf("outputPath = %v", got)
	}
	plugintest.Project(t, root, "site-e2e")

	manifest := plugintest.ReadFile(t, root, "package.json")
	for _, dep := range []string{"devDependencies.vite", "devDependencies.sass", "devDependencies.cypress", "dependencies.vue"} {
		if !gjson.Get(manifest, dep).Exists() {
			t.Errorf("package.json missing %s", dep)
		}
	}
}

func TestBuild(t *testing.T) {
	root := plugintest.NewWorkspace(t, nil)
	if err := plugintest.Generate(t, New(nil), root, "@nxplus/vite:application", models.Options{"name": "site", "e2eTestRunner": "none"}); err != nil {
		t.Fatalf("generate error: %v", err)
	}
	l := &executortest.Launcher{Output: []string{"vite v2.7.2 building for production..."}}
	v := &Vite{launcher: l}
	ectx := plugintest.ExecutorContext(t, root, "site")

	opts := models.Options{"outputPath": "dist/apps/site", "config": "apps/site/vite.config.ts", "mode": "production"}
	h, err := v.build(context.Background(), opts, ectx)
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	results := plugintest.Collect(h)
	if len(results) != 1 || !results[0].Success || results[0].OutputPath != "dist/apps/site" {
		t.Fatalf("results = %+v", results)
	}

	call := l.Last()
	want := []string{
		"vite", "build", filepath.Join(root, "apps/site"),
		"--config", filepath.Join(root, "apps/site/vite.config.ts"),
		"--outDir", filepath.Join(root, "dist/apps/site"),
		"--emptyOutDir",
		"--mode", "production",
	}
	if diff := cmp.Diff(want, call.Argv); diff != "" {
		t.Errorf("argv mismatch (-want +got):\n%s", diff)
	}
	if call.Dir != root {
		t.Errorf("dir = %q, want %q", call.Dir, root)
	}
}

func TestBuildMissingConfig(t *testing.T) {
	root := plugintest.NewWorkspace(t, nil)
	if err := plugintest.Generate(t, New(nil), root, "@nxplus/vite:application", models.Options{"name": "site", "e2eTestRunner": "none"}); err != nil {
		t.Fatalf("generate error: %v", err)
	}
	v := &Vite{launcher: &executortest.Launcher{}}
	ectx := plugintest.ExecutorContext(t, root, "site")
	_, err := v.build(context.Background(), models.Options{"outputPath": "dist/x", "config": "apps/site/vite.config.js"}, ectx)
	if !errors.Is(err, bridge.ErrInvalidOption) {
		t.Errorf("error = %v, want ErrInvalidOption", err)
	}
}

func TestDevServer(t *testing.T) {
	root := plugintest.NewWorkspace(t, nil)
	if err := plugintest.Generate(t, New(nil), root, "@nxplus/vite:application", models.Options{"name": "site", "e2eTestRunner": "none"}); err != nil {
		t.Fatalf("generate error: %v", err)
	}
	l := &executortest.Launcher{
		Output:   []string{"  vite v2.7.2 dev server running at:", "  > Local: http://localhost:4300/"},
		KeepOpen: true,
	}
	v := &Vite{launcher: l}
	ectx := plugintest.ExecutorContext(t, root, "site")

	h, err := v.devServer(context.Background(), models.Options{"buildTarget": "site:build:production", "port": 4300, "mode": "staging"}, ectx)
	if err != nil {
		t.Fatalf("devServer error: %v", err)
	}
	first := <-h.Results()
	if !first.Success || first.BaseURL != "http://localhost:4300/" {
		t.Fatalf("first result = %+v", first)
	}
	if err := h.Stop(); err != nil {
		t.Fatalf("Stop error: %v", err)
	}
	<-h.Done()

	want := []string{
		"vite", filepath.Join(root, "apps/site"),
		"--config", filepath.Join(root, "apps/site/vite.config.ts"),
		"--port", "4300",
		"--strictPort",
		"--mode", "staging",
	}
	if diff := cmp.Diff(want, l.Last().Argv); diff != "" {
		t.Errorf("argv mismatch (-want +got):\n%s", diff)
	}
}
