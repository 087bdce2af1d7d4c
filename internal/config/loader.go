package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/imdario/mergo"
	"gopkg.in/yaml.v3"
)

// Load reads nxplus.yaml from root. A missing file yields the defaults.
// File values win over defaults and environment variables win over both.
// The merged configuration is validated before it is returned.
func Load(root string, logger *slog.Logger) (*Config, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	cfg := &Config{}
	path := filepath.Join(filepath.Clean(root), FileName)
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Debug("config file not found, using defaults", "path", path)
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", FileName, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w: %v", FileName, ErrInvalidYAML, err)
		}
		logger.Debug("loaded config", "path", path)
	}

	if err := mergo.Merge(cfg, NewDefaultConfig()); err != nil {
		return nil, fmt.Errorf("apply config defaults: %w", err)
	}
	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies NXPLUS_* environment variables.
func applyEnvOverrides(cfg *Config) {
	if level := os.Getenv("NXPLUS_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if format := os.Getenv("NXPLUS_LOG_FORMAT"); format != "" {
		cfg.Log.Format = format
	}
	if on, ok := envBool("NXPLUS_NO_COLOR"); ok {
		cfg.Log.NoColor = on
	}
	if pm := os.Getenv("NXPLUS_PACKAGE_MANAGER"); pm != "" {
		cfg.CLI.PackageManager = pm
	}
	if on, ok := envBool("NXPLUS_SKIP_INSTALL"); ok {
		cfg.CLI.SkipInstall = on
	}
}

func envBool(key string) (bool, bool) {
	v := os.Getenv(key)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}
