package config

import "log/slog"

// Config is the content of nxplus.yaml.
type Config struct {
	CLI CLIConfig `yaml:"cli"`
	Log LogConfig `yaml:"log"`
}

// CLIConfig holds command defaults.
type CLIConfig struct {
	// PackageManager overrides lock file detection: npm, yarn or pnpm.
	PackageManager string `yaml:"packageManager,omitempty"`
	SkipInstall    bool   `yaml:"skipInstall,omitempty"`
	// DefaultCollection is the plugin used when a generator id has no
	// plugin prefix, e.g. "app" instead of "@nxplus/vue:app".
	DefaultCollection string `yaml:"defaultCollection,omitempty"`
}

// LogConfig controls the CLI logger.
type LogConfig struct {
	Level   string `yaml:"level,omitempty"`  // debug, info, warn, error
	Format  string `yaml:"format,omitempty"` // text, json
	NoColor bool   `yaml:"noColor,omitempty"`
}

// SlogLevel converts Level to a slog level. Unknown values map to info.
func (c LogConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
