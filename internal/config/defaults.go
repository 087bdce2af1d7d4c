package config

import "github.com/nxplus/nxplus/internal/defs"

// Default values applied to fields nxplus.yaml leaves empty.
const (
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "text"
	DefaultDefaultCollection = "@nxplus/vue"
)

// FileName is the configuration file read from the workspace root.
const FileName = defs.ConfigYAML

// NewDefaultConfig returns a Config with every default applied.
func NewDefaultConfig() *Config {
	return &Config{
		CLI: CLIConfig{
			DefaultCollection: DefaultDefaultCollection,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
