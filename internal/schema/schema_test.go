package schema

import (
	"encoding/json"
	"errors"
	"testing"
)

type buildOptions struct {
	OutputPath    string            `json:"outputPath" jsonschema:"required,description=Output directory"`
	OutputHashing string            `json:"outputHashing,omitempty" jsonschema:"enum=none,enum=all,enum=media,enum=bundles"`
	SourceMap     bool              `json:"sourceMap,omitempty"`
	Port          int               `json:"port,omitempty"`
	Define        map[string]string `json:"define,omitempty"`
}

func TestReflect(t *testing.T) {
	s := Reflect(&buildOptions{}, "browser", "Builds an app")
	data, err := Marshal(s)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("schema is not JSON: %v", err)
	}
	if doc["title"] != "browser" {
		t.Errorf("title = %v", doc["title"])
	}
	props, _ := doc["properties"].(map[string]any)
	for _, key := range []string{"outputPath", "outputHashing", "sourceMap", "port", "define"} {
		if _, ok := props[key]; !ok {
			t.Errorf("property %q missing", key)
		}
	}
	req, _ := doc["required"].([]any)
	if len(req) != 1 || req[0] != "outputPath" {
		t.Errorf("required = %v, want [outputPath]", req)
	}
}

func TestValidate(t *testing.T) {
	v, err := Compile(Reflect(&buildOptions{}, "browser", ""))
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	tests := []struct {
		name    string
		options map[string]any
		wantErr bool
	}{
		{"valid", map[string]any{"outputPath": "dist/apps/a", "port": 4200, "sourceMap": true}, false},
		{"extra_keys_allowed", map[string]any{"outputPath": "dist", "custom": 1}, false},
		{"missing_required", map[string]any{"sourceMap": true}, true},
		{"bad_enum", map[string]any{"outputPath": "dist", "outputHashing": "some"}, true},
		{"wrong_type", map[string]any{"outputPath": "dist", "port": "4200"}, true},
		{"float_integer_ok", map[string]any{"outputPath": "dist", "port": float64(4200)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.options)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidOptions) {
					t.Errorf("error = %v, want ErrInvalidOptions", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate error: %v", err)
			}
		})
	}
}
