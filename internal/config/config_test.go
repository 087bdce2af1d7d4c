package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, FileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if diff := cmp.Diff(NewDefaultConfig(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFile(t *testing.T) {
	root := writeConfig(t, `
cli:
  packageManager: pnpm
  skipInstall: true
log:
  level: debug
`)
	cfg, err := Load(root, nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	want := &Config{
		CLI: CLIConfig{PackageManager: "pnpm", SkipInstall: true, DefaultCollection: DefaultDefaultCollection},
		Log: LogConfig{Level: "debug", Format: DefaultLogFormat},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if cfg.Log.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel = %v", cfg.Log.SlogLevel())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	root := writeConfig(t, "log:\n  level: debug\n  format: text\n")
	t.Setenv("NXPLUS_LOG_LEVEL", "error")
	t.Setenv("NXPLUS_LOG_FORMAT", "json")
	t.Setenv("NXPLUS_NO_COLOR", "1")
	t.Setenv("NXPLUS_PACKAGE_MANAGER", "yarn")
	t.Setenv("NXPLUS_SKIP_INSTALL", "true")

	cfg, err := Load(root, nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	want := &Config{
		CLI: CLIConfig{PackageManager: "yarn", SkipInstall: true, DefaultCollection: DefaultDefaultCollection},
		Log: LogConfig{Level: "error", Format: "json", NoColor: true},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []error
	}{
		{name: "bad_yaml", content: "cli: [unclosed", want: []error{ErrInvalidYAML}},
		{name: "bad_level", content: "log:\n  level: loud\n", want: []error{ErrInvalidConfig}},
		{name: "bad_package_manager", content: "cli:\n  packageManager: bun\n", want: []error{ErrInvalidConfig}},
		{name: "dynamic_token", content: "cli:\n  defaultCollection: ${COLLECTION}\n", want: []error{ErrInvalidConfig, ErrDynamicToken}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content), nil)
			for _, want := range tt.want {
				if !errors.Is(err, want) {
					t.Errorf("Load error = %v, want %v", err, want)
				}
			}
		})
	}
}

func TestValidateCollectsEveryError(t *testing.T) {
	cfg := &Config{
		CLI: CLIConfig{PackageManager: "bun"},
		Log: LogConfig{Level: "loud", Format: "xml"},
	}
	err := Validate(cfg)
	var verrs *ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Validate error = %v, want *ValidationErrors", err)
	}
	var fields []string
	for _, e := range verrs.Errors {
		fields = append(fields, e.Field)
	}
	want := []string{"log.level", "log.format", "cli.packageManager"}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}
