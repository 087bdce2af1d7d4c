package bridge

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCommandFlags(t *testing.T) {
	c := NewCommand("vuepress", "build", "docs", "--dest=dist/old", "--port", "8080")

	c.SetFlag("--dest", "dist/apps/docs")
	c.SetFlag("--port", "9000")
	c.SetFlag("--cache", "/tmp/cache")
	c.SetSwitch("--debug")
	c.SetSwitch("--debug")

	want := []string{"vuepress", "build", "docs", "--dest=dist/apps/docs", "--port", "9000", "--cache", "/tmp/cache", "--debug"}
	if diff := cmp.Diff(want, c.Argv()); diff != "" {
		t.Errorf("Argv mismatch (-want +got):\n%s", diff)
	}
	if v, ok := c.Flag("--dest"); !ok || v != "dist/apps/docs" {
		t.Errorf("Flag(--dest) = %q, %v", v, ok)
	}
	if _, ok := c.Flag("--host"); ok {
		t.Error("Flag(--host) should be absent")
	}
}

func TestCommandPipeline(t *testing.T) {
	root := "/ws"
	c := NewCommand("vuepress", "dev", "apps/docs/docs")
	c.Env["NODE_ENV"] = "development"

	err := NewPipeline(
		CacheDir(root, "vuepress", "docs", "--cache"),
		OutDir("--dest", ""),
		DevServerAddr("0.0.0.0", 8081),
		Environment(map[string]string{"NODE_ENV": "production", "FORCE_COLOR": "1"}),
	).Apply(c)
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}

	wantArgs := []string{"dev", "apps/docs/docs", "--cache", filepath.Join("/ws", "node_modules", ".cache", "vuepress", "docs"), "--host", "0.0.0.0", "--port", "8081"}
	if diff := cmp.Diff(wantArgs, c.Args); diff != "" {
		t.Errorf("Args mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"FORCE_COLOR=1", "NODE_ENV=development"}, c.Environ()); diff != "" {
		t.Errorf("Environ mismatch (-want +got):\n%s", diff)
	}
}

func TestFlagAndSwitchPatches(t *testing.T) {
	c := NewCommand("vite", "build", "apps/site")
	err := NewPipeline(
		Flag("--config", "apps/site/vite.config.ts"),
		Flag("--mode", ""),
		Switch("--emptyOutDir", true),
		Switch("--debug", false),
	).Apply(c)
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	want := []string{"build", "apps/site", "--config", "apps/site/vite.config.ts", "--emptyOutDir"}
	if diff := cmp.Diff(want, c.Args); diff != "" {
		t.Errorf("Args mismatch (-want +got):\n%s", diff)
	}
}

func TestOutDirSharesOutputSection(t *testing.T) {
	p := OutDir("--dest", "/ws/dist/apps/docs")
	if diff := cmp.Diff([]Section{SectionOutput}, p.Writes); diff != "" {
		t.Errorf("Writes mismatch (-want +got):\n%s", diff)
	}

	// A later patch reading the output section must come after OutDir.
	reader := Patch[*Command]{Name: "reads-output", Reads: []Section{SectionOutput}, Apply: func(*Command) error { return nil }}
	if err := NewPipeline(reader, p).Validate(); !errors.Is(err, ErrPatchOrder) {
		t.Errorf("Validate error = %v, want ErrPatchOrder", err)
	}
	if err := NewPipeline(p, reader).Validate(); err != nil {
		t.Errorf("Validate error = %v, want nil", err)
	}
}
