package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/nxplus/nxplus/pkg/models"
)

// shorthands maps single-dash flags to option keys.
var shorthands = map[string]string{
	"v": "verbose",
	"h": "help",
	"c": "configuration",
	"d": "dryRun",
}

// parseArgs splits arguments into positionals and an option record.
// "--key=value" and "--key value" set a value, a bare "--key" is true and
// "--no-key" is false. Kebab-case keys become camelCase. Everything after
// "--" is positional.
func parseArgs(args []string) ([]string, models.Options, error) {
	var pos []string
	opts := models.Options{}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			pos = append(pos, args[i+1:]...)
			return pos, opts, nil
		case strings.HasPrefix(arg, "--"):
			key, value, hasValue := strings.Cut(arg[2:], "=")
			if key == "" {
				return nil, nil, fmt.Errorf("%w: %q", ErrInvalidFlag, arg)
			}
			if !hasValue && !strings.HasPrefix(key, "no-") && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				value, hasValue = args[i+1], true
				i++
			}
			if !hasValue {
				if neg, ok := strings.CutPrefix(key, "no-"); ok {
					opts[camelCase(neg)] = false
				} else {
					opts[camelCase(key)] = true
				}
				continue
			}
			opts[camelCase(key)] = parseValue(value)
		case len(arg) > 1 && strings.HasPrefix(arg, "-"):
			key, value, hasValue := strings.Cut(arg[1:], "=")
			name, ok := shorthands[key]
			if !ok {
				return nil, nil, fmt.Errorf("%w: unknown shorthand %q", ErrInvalidFlag, arg)
			}
			if hasValue {
				opts[name] = parseValue(value)
			} else if name == "configuration" && i+1 < len(args) {
				opts[name] = args[i+1]
				i++
			} else {
				opts[name] = true
			}
		default:
			pos = append(pos, arg)
		}
	}
	return pos, opts, nil
}

// parseValue interprets a flag value as a bool, a number or JSON when
// possible, and as a string otherwise.
func parseValue(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		var v any
		if err := json.Unmarshal([]byte(s), &v); err == nil {
			return v
		}
	}
	return s
}

func camelCase(key string) string {
	parts := strings.Split(key, "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}

// takeSettings removes the global options from opts.
func takeSettings(opts models.Options) (s Settings, help bool) {
	s.Root = takeString(opts, "root")
	s.Verbose = takeBool(opts, "verbose")
	s.NoColor = takeBool(opts, "noColor")
	if color, ok := opts["color"].(bool); ok {
		// --no-color parses as color=false.
		s.NoColor = s.NoColor || !color
		delete(opts, "color")
	}
	help = takeBool(opts, "help")
	return s, help
}

func takeBool(opts models.Options, key string) bool {
	v, ok := opts[key]
	delete(opts, key)
	b, _ := v.(bool)
	return ok && b
}

func takeString(opts models.Options, key string) string {
	v, ok := opts[key]
	if !ok {
		return ""
	}
	delete(opts, key)
	return fmt.Sprint(v)
}
