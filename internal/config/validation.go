package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/nxplus/nxplus/internal/install"
)

// Unexpanded template variables that must not appear in values.
var dynamicTokenPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\{[^}]+\}`),        // ${VAR}
	regexp.MustCompile(`\{\{[^}]+\}\}`),      // {{VAR}}
	regexp.MustCompile(`\$[A-Z_][A-Z0-9_]*`), // $VAR
}

var (
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"text", "json"}
)

// Validate checks the configuration and returns every problem at once as
// a *ValidationErrors.
func Validate(cfg *Config) error {
	var errs []ValidationError

	errs = append(errs, oneOf("log.level", cfg.Log.Level, validLogLevels)...)
	errs = append(errs, oneOf("log.format", cfg.Log.Format, validLogFormats)...)

	if pm := cfg.CLI.PackageManager; pm != "" {
		if _, err := install.ParsePackageManager(pm); err != nil {
			errs = append(errs, ValidationError{
				Field:   "cli.packageManager",
				Message: "must be one of: npm, yarn, pnpm",
				Value:   pm,
				Wrapped: ErrInvalidConfig,
			})
		}
	}

	errs = append(errs, checkStringField("cli.defaultCollection", cfg.CLI.DefaultCollection)...)
	errs = append(errs, checkStringField("cli.packageManager", cfg.CLI.PackageManager)...)

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

func oneOf(field, value string, valid []string) []ValidationError {
	if value == "" || slices.Contains(valid, value) {
		return nil
	}
	return []ValidationError{{
		Field:   field,
		Message: "must be one of: " + strings.Join(valid, ", "),
		Value:   value,
		Wrapped: ErrInvalidConfig,
	}}
}

// checkStringField checks a single string field for dynamic token patterns.
func checkStringField(field, value string) []ValidationError {
	if value == "" {
		return nil
	}
	for _, pattern := range dynamicTokenPatterns {
		if match := pattern.FindString(value); match != "" {
			return []ValidationError{{
				Field:   field,
				Message: fmt.Sprintf("contains unexpanded dynamic token: %s", match),
				Value:   value,
				Wrapped: ErrDynamicToken,
			}}
		}
	}
	return nil
}
