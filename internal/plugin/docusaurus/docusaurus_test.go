package docusaurus

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tidwall/gjson"

	"github.com/nxplus/nxplus/internal/executor/executortest"
	"github.com/nxplus/nxplus/internal/plugin/plugintest"
	"github.com/nxplus/nxplus/pkg/models"
)

func TestApplication(t *testing.T) {
	root := plugintest.NewWorkspace(t, nil)
	err := plugintest.Generate(t, New(nil), root, "@nxplus/docusaurus:app", models.Options{"name": "docs-site", "title": `The "Docs"`})
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}

	for _, f := range []string{"docusaurus.config.js", "sidebars.js", "docs/intro.md", "src/pages/index.md", "src/css/custom.css", "static/img/.gitkeep", ".eslintrc.json"} {
		if !plugintest.Exists(root, "apps/docs-site/"+f) {
			t.Errorf("missing apps/docs-site/%s", f)
		}
	}
	config := plugintest.ReadFile(t, root, "apps/docs-site/docusaurus.config.js")
	if !strings.Contains(config, `title: "The \"Docs\""`) {
		t.Errorf("title not escaped in config:\n%s", config)
	}

	p := plugintest.Project(t, root, "docs-site")
	if diff := cmp.Diff([]string{"build", "lint", "serve"}, p.TargetNames()); diff != "" {
		t.Errorf("targets mismatch (-want +got):\n%s", diff)
	}
	if !gjson.Get(plugintest.ReadFile(t, root, "package.json"), `dependencies.@docusaurus/core`).Exists() {
		t.Error("@docusaurus/core not added")
	}
}

func TestDefaultTitle(t *testing.T) {
	root := plugintest.NewWorkspace(t, nil)
	if err := plugintest.Generate(t, New(nil), root, "@nxplus/docusaurus:application", models.Options{"name": "handbook"}); err != nil {
		t.Fatalf("generate error: %v", err)
	}
	if intro := plugintest.ReadFile(t, root, "apps/handbook/docs/intro.md"); !strings.Contains(intro, "# Handbook") {
		t.Errorf("intro.md heading:\n%s", intro)
	}
}

func TestExecutors(t *testing.T) {
	root := plugintest.NewWorkspace(t, nil)
	if err := plugintest.Generate(t, New(nil), root, "@nxplus/docusaurus:application", models.Options{"name": "handbook"}); err != nil {
		t.Fatalf("generate error: %v", err)
	}
	projectRoot := filepath.Join(root, "apps/handbook")

	t.Run("browser", func(t *testing.T) {
		l := &executortest.Launcher{}
		d := &Docusaurus{launcher: l}
		h, err := d.browser(context.Background(), models.Options{"outputPath": "dist/apps/handbook", "locale": "fr"}, plugintest.ExecutorContext(t, root, "handbook"))
		if err != nil {
			t.Fatalf("browser error: %v", err)
		}
		if results := plugintest.Collect(h); len(results) != 1 || !results[0].Success {
			t.Fatalf("results = %+v", results)
		}
		want := []string{"docusaurus", "build", projectRoot, "--out-dir", filepath.Join(root, "dist/apps/handbook"), "--locale", "fr"}
		if diff := cmp.Diff(want, l.Last().Argv); diff != "" {
			t.Errorf("argv mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("dev-server", func(t *testing.T) {
		l := &executortest.Launcher{Output: []string{"[SUCCESS] Docusaurus website is running at http://localhost:3000/"}, KeepOpen: true}
		d := &Docusaurus{launcher: l}
		h, err := d.devServer(context.Background(), models.Options{}, plugintest.ExecutorContext(t, root, "handbook"))
		if err != nil {
			t.Fatalf("devServer error: %v", err)
		}
		if r := <-h.Results(); r.BaseURL != "http://localhost:3000/" {
			t.Errorf("BaseURL = %q", r.BaseURL)
		}
		_ = h.Stop()
		<-h.Done()
		want := []string{"docusaurus", "start", projectRoot, "--port", "3000", "--no-open"}
		if diff := cmp.Diff(want, l.Last().Argv); diff != "" {
			t.Errorf("argv mismatch (-want +got):\n%s", diff)
		}
	})
}
