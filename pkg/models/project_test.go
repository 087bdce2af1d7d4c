package models

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestProjectTypeIsValid(t *testing.T) {
	tests := []struct {
		in   ProjectType
		want bool
	}{
		{ProjectTypeApplication, true},
		{ProjectTypeLibrary, true},
		{"", false},
		{"e2e", false},
	}
	for _, tt := range tests {
		if got := tt.in.IsValid(); got != tt.want {
			t.Errorf("ProjectType(%q).IsValid() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestProjectConfigurationClone(t *testing.T) {
	orig := ProjectConfiguration{
		Root: "apps/a",
		Tags: []string{"scope:a"},
		Targets: map[string]TargetDefinition{
			"build": {
				Executor: "@nxplus/vue:browser",
				Options: Options{
					"outputPath": "dist/apps/a",
					"assets":     []any{"apps/a/src/favicon.ico"},
					"define":     map[string]any{"X": "1"},
				},
				Configurations: map[string]Options{
					"production": {"mode": "production"},
				},
			},
		},
	}

	clone := orig.Clone()
	if diff := cmp.Diff(orig, clone); diff != "" {
		t.Fatalf("clone differs (-orig +clone):\n%s", diff)
	}

	clone.Tags[0] = "changed"
	clone.Targets["build"].Options["define"].(map[string]any)["X"] = "2"
	clone.Targets["build"].Configurations["production"]["mode"] = "development"

	if orig.Tags[0] != "scope:a" {
		t.Errorf("tags aliased: %v", orig.Tags)
	}
	if got := orig.Targets["build"].Options["define"].(map[string]any)["X"]; got != "1" {
		t.Errorf("nested option aliased: %v", got)
	}
	if got := orig.Targets["build"].Configurations["production"]["mode"]; got != "production" {
		t.Errorf("configuration aliased: %v", got)
	}
}

func TestTargetNamesSorted(t *testing.T) {
	p := ProjectConfiguration{Targets: map[string]TargetDefinition{
		"serve": {}, "build": {}, "lint": {},
	}}
	want := []string{"build", "lint", "serve"}
	if diff := cmp.Diff(want, p.TargetNames()); diff != "" {
		t.Errorf("TargetNames mismatch (-want +got):\n%s", diff)
	}
	if !p.HasTarget("lint") || p.HasTarget("test") {
		t.Error("HasTarget returned unexpected result")
	}
}
