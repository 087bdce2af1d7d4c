package executor

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/nxplus/nxplus/internal/workspace"
)

// ResolveTargetOptions reads the merged options of the target named by
// targetString and lays the allow-listed keys of own on top. Keys of own
// that are not in allow never reach the result.
func ResolveTargetOptions(ectx *Context, targetString string, own Options, allow []string) (Options, error) {
	t, err := workspace.ParseTargetString(targetString)
	if err != nil {
		return nil, err
	}
	resolved, err := ectx.Workspace.ReadTargetOptions(t)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", targetString, err)
	}
	for _, key := range allow {
		if v, ok := own[key]; ok {
			resolved[key] = v
		}
	}
	return resolved, nil
}

// Decode copies an option record into a typed option struct using its json
// tags. String values from the command line are converted to the field
// type, so "--port=4300" fills an int field.
func Decode(opts Options, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("options decoder: %w", err)
	}
	if err := dec.Decode(opts); err != nil {
		return fmt.Errorf("decode options: %w", err)
	}
	return nil
}
