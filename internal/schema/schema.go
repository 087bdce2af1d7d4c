// Package schema reflects JSON schemas from generator and executor option
// structs and validates option records against them.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/invopop/jsonschema"
	jsval "github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidOptions indicates an option record that does not match its schema.
var ErrInvalidOptions = errors.New("schema: invalid options")

const resourceURL = "mem://nxplus/options.schema.json"

// Reflect builds the schema of an option struct. Every field is optional
// unless tagged jsonschema:"required", and unknown keys are allowed so that
// options shared between targets do not fail validation.
func Reflect(v any, title, description string) *jsonschema.Schema {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties:  true,
		ExpandedStruct:             true,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	s := r.Reflect(v)
	s.ID = ""
	s.Title = title
	s.Description = description
	return s
}

// Marshal renders a schema as indented JSON.
func Marshal(s *jsonschema.Schema) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}

// Validator checks option records against a compiled schema.
type Validator struct {
	compiled *jsval.Schema
}

// Compile prepares a schema for validation.
func Compile(s *jsonschema.Schema) (*Validator, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	c := jsval.NewCompiler()
	c.Draft = jsval.Draft2020
	if err := c.AddResource(resourceURL, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := c.Compile(resourceURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{compiled: compiled}, nil
}

// Validate checks an option record. The record is round-tripped through
// JSON first so Go values validate the same way as values read from
// workspace.json.
func (v *Validator) Validate(options map[string]any) error {
	data, err := json.Marshal(options)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if err := v.compiled.Validate(doc); err != nil {
		var verr *jsval.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("%w: %s", ErrInvalidOptions, describe(verr))
		}
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	return nil
}

// describe flattens a validation error tree into "location: message" pairs.
func describe(e *jsval.ValidationError) string {
	var msgs []string
	var walk func(*jsval.ValidationError)
	walk = func(e *jsval.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			msgs = append(msgs, loc+": "+e.Message)
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(e)
	return fmt.Sprint(msgs)
}
