package install

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/nxplus/nxplus/internal/workspace"
)

func treeWithManifest(t *testing.T, manifest string, extra ...string) *workspace.Tree {
	t.Helper()
	root := t.TempDir()
	if manifest != "" {
		if err := os.WriteFile(filepath.Join(root, "package.json"), []byte(manifest), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	for _, name := range extra {
		if err := os.WriteFile(filepath.Join(root, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return workspace.NewTree(root, nil)
}

func TestAddDependencies(t *testing.T) {
	tree := treeWithManifest(t, `{
  "name": "acme",
  "dependencies": {"vue": "^3.0.0"},
  "devDependencies": {"typescript": "~4.1.0"}
}`)

	task, err := AddDependencies(tree,
		Dependencies{"vue": "^3.2.0", "vue-router": "^4.0.0"},
		Dependencies{"typescript": "~4.5.0", "vue": "^3.2.0", "@nxplus/vue": "0.4.0", "socket.io": "^4.0.0"},
	)
	if err != nil {
		t.Fatalf("AddDependencies error: %v", err)
	}
	if !task.Changed {
		t.Error("task should be marked changed")
	}

	data, _ := tree.Read("package.json")
	checks := map[string]string{
		"name":                         "acme",
		"dependencies.vue":             "^3.0.0",
		"dependencies.vue-router":      "^4.0.0",
		"devDependencies.typescript":   "~4.1.0",
		`devDependencies.\@nxplus/vue`: "0.4.0",
		`devDependencies.socket\.io`:   "^4.0.0",
	}
	for path, want := range checks {
		if got := gjson.GetBytes(data, path).String(); got != want {
			t.Errorf("%s = %q, want %q", path, got, want)
		}
	}
	if gjson.GetBytes(data, "devDependencies.vue").Exists() {
		t.Error("vue duplicated into devDependencies")
	}
}

func TestAddDependenciesNoChange(t *testing.T) {
	tree := treeWithManifest(t, `{"dependencies": {"vue": "^3.0.0"}}`)
	task, err := AddDependencies(tree, Dependencies{"vue": "^3.2.0"}, nil)
	if err != nil {
		t.Fatalf("AddDependencies error: %v", err)
	}
	if task.Changed {
		t.Error("task should not be marked changed")
	}
	if len(tree.Changes()) != 0 {
		t.Errorf("unexpected staged changes: %v", tree.Changes())
	}
}

func TestAddDependenciesInvalidManifest(t *testing.T) {
	tree := treeWithManifest(t, `{"dependencies": `)
	if _, err := AddDependencies(tree, Dependencies{"vue": "^3"}, nil); !errors.Is(err, ErrInvalidManifest) {
		t.Errorf("error = %v, want ErrInvalidManifest", err)
	}
}

func TestAddDependenciesMissingManifest(t *testing.T) {
	tree := treeWithManifest(t, "")
	if _, err := AddDependencies(tree, Dependencies{"vue": "^3"}, nil); err != nil {
		t.Fatalf("AddDependencies error: %v", err)
	}
	data, _ := tree.Read("package.json")
	if gjson.GetBytes(data, "dependencies.vue").String() != "^3" {
		t.Errorf("package.json = %s", data)
	}
}

func TestEnsureScript(t *testing.T) {
	tree := treeWithManifest(t, `{"scripts": {"postinstall": "node decorate.js"}}`)
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	written, err := EnsureScript(tree, "postinstall", "nxplus patch", logger)
	if err != nil {
		t.Fatalf("EnsureScript error: %v", err)
	}
	if written {
		t.Error("existing postinstall script was overwritten")
	}
	if !strings.Contains(logs.String(), "script differs") {
		t.Errorf("expected a warning, logs: %s", logs.String())
	}

	written, err = EnsureScript(tree, "e2e", "nxplus run app-e2e:e2e", nil)
	if err != nil || !written {
		t.Fatalf("EnsureScript(e2e) = %v, %v", written, err)
	}
	data, _ := tree.Read("package.json")
	if got := gjson.GetBytes(data, "scripts.postinstall").String(); got != "node decorate.js" {
		t.Errorf("postinstall = %q", got)
	}
	if got := gjson.GetBytes(data, "scripts.e2e").String(); got != "nxplus run app-e2e:e2e" {
		t.Errorf("e2e = %q", got)
	}
}

func TestDetectPackageManager(t *testing.T) {
	tests := []struct {
		lock string
		want PackageManager
	}{
		{"pnpm-lock.yaml", PNPM},
		{"yarn.lock", Yarn},
		{"package-lock.json", NPM},
		{"", NPM},
	}
	for _, tt := range tests {
		var tree *workspace.Tree
		if tt.lock == "" {
			tree = treeWithManifest(t, "{}")
		} else {
			tree = treeWithManifest(t, "{}", tt.lock)
		}
		if got := DetectPackageManager(tree); got != tt.want {
			t.Errorf("DetectPackageManager(%q) = %q, want %q", tt.lock, got, tt.want)
		}
	}
}
