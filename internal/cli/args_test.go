package cli

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nxplus/nxplus/pkg/models"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantPos  []string
		wantOpts models.Options
	}{
		{
			name:     "positionals_only",
			args:     []string{"@nxplus/vue:app", "shop"},
			wantPos:  []string{"@nxplus/vue:app", "shop"},
			wantOpts: models.Options{},
		},
		{
			name:     "equals_and_space_forms",
			args:     []string{"app", "--style=scss", "--directory", "store"},
			wantPos:  []string{"app"},
			wantOpts: models.Options{"style": "scss", "directory": "store"},
		},
		{
			name:     "bare_and_negated_flags",
			args:     []string{"--routing", "--no-skip-format", "app"},
			wantPos:  []string{"app"},
			wantOpts: models.Options{"routing": true, "skipFormat": false},
		},
		{
			name:     "kebab_keys_become_camel_case",
			args:     []string{"--unit-test-runner=none", "--dry-run"},
			wantOpts: models.Options{"unitTestRunner": "none", "dryRun": true},
		},
		{
			name:     "typed_values",
			args:     []string{"--port=4300", "--ratio=0.5", "--open=false", `--define={"API":"/v2"}`},
			wantOpts: models.Options{"port": 4300, "ratio": 0.5, "open": false, "define": map[string]any{"API": "/v2"}},
		},
		{
			name:     "shorthands",
			args:     []string{"shop:build", "-c", "production", "-v"},
			wantPos:  []string{"shop:build"},
			wantOpts: models.Options{"configuration": "production", "verbose": true},
		},
		{
			name:     "double_dash_ends_flags",
			args:     []string{"--flag", "--", "--not-a-flag"},
			wantPos:  []string{"--not-a-flag"},
			wantOpts: models.Options{"flag": true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, opts, err := parseArgs(tt.args)
			if err != nil {
				t.Fatalf("parseArgs error: %v", err)
			}
			if diff := cmp.Diff(tt.wantPos, pos); diff != "" {
				t.Errorf("positionals mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantOpts, opts); diff != "" {
				t.Errorf("options mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseArgsErrors(t *testing.T) {
	for _, args := range [][]string{{"--=x"}, {"-x"}} {
		if _, _, err := parseArgs(args); !errors.Is(err, ErrInvalidFlag) {
			t.Errorf("parseArgs(%q) error = %v, want ErrInvalidFlag", args, err)
		}
	}
}

func TestTakeSettings(t *testing.T) {
	_, opts, err := parseArgs([]string{"--root", "/ws", "--no-color", "-v", "--name=shop"})
	if err != nil {
		t.Fatal(err)
	}
	s, help := takeSettings(opts)
	want := Settings{Root: "/ws", Verbose: true, NoColor: true}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
	if help {
		t.Error("help = true")
	}
	if diff := cmp.Diff(models.Options{"name": "shop"}, opts); diff != "" {
		t.Errorf("remaining options mismatch (-want +got):\n%s", diff)
	}
}

func TestQualify(t *testing.T) {
	tests := []struct {
		id, collection, want string
	}{
		{"app", "@nxplus/vue", "@nxplus/vue:app"},
		{"@nxplus/nuxt:app", "@nxplus/vue", "@nxplus/nuxt:app"},
		{"app", "", "app"},
	}
	for _, tt := range tests {
		if got := qualify(tt.id, tt.collection); got != tt.want {
			t.Errorf("qualify(%q, %q) = %q, want %q", tt.id, tt.collection, got, tt.want)
		}
	}
}
