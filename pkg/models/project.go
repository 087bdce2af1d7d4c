package models

import (
	"maps"
	"slices"
)

// ProjectType represents the kind of workspace project.
type ProjectType string

const (
	ProjectTypeApplication ProjectType = "application"
	ProjectTypeLibrary     ProjectType = "library"
)

// IsValid reports whether the project type is a known value.
func (t ProjectType) IsValid() bool {
	switch t {
	case ProjectTypeApplication, ProjectTypeLibrary:
		return true
	}
	return false
}

// Options is a free-form option record as stored in workspace.json.
type Options = map[string]any

// ProjectConfiguration is one project entry in workspace.json.
type ProjectConfiguration struct {
	Root        string                      `json:"root"`
	SourceRoot  string                      `json:"sourceRoot,omitempty"`
	ProjectType ProjectType                 `json:"projectType,omitempty"`
	Targets     map[string]TargetDefinition `json:"targets,omitempty"`
	Tags        []string                    `json:"tags,omitempty"`
}

// TargetDefinition binds a target name to an executor id and its options.
type TargetDefinition struct {
	Executor             string             `json:"executor"`
	Options              Options            `json:"options,omitempty"`
	Configurations       map[string]Options `json:"configurations,omitempty"`
	DefaultConfiguration string             `json:"defaultConfiguration,omitempty"`
}

// TargetNames returns the project's target names in sorted order.
func (p ProjectConfiguration) TargetNames() []string {
	return slices.Sorted(maps.Keys(p.Targets))
}

// HasTarget reports whether the project defines the named target.
func (p ProjectConfiguration) HasTarget(name string) bool {
	_, ok := p.Targets[name]
	return ok
}

// Clone returns a deep copy of the project configuration. Option values
// that are maps or slices are copied recursively.
func (p ProjectConfiguration) Clone() ProjectConfiguration {
	out := p
	out.Tags = slices.Clone(p.Tags)
	if p.Targets != nil {
		out.Targets = make(map[string]TargetDefinition, len(p.Targets))
		for name, t := range p.Targets {
			out.Targets[name] = t.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the target definition.
func (t TargetDefinition) Clone() TargetDefinition {
	out := t
	out.Options = CloneOptions(t.Options)
	if t.Configurations != nil {
		out.Configurations = make(map[string]Options, len(t.Configurations))
		for name, c := range t.Configurations {
			out.Configurations[name] = CloneOptions(c)
		}
	}
	return out
}

// CloneOptions deep-copies an option record.
func CloneOptions(o Options) Options {
	if o == nil {
		return nil
	}
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return CloneOptions(x)
	case []any:
		s := make([]any, len(x))
		for i := range x {
			s[i] = cloneValue(x[i])
		}
		return s
	case []string:
		return slices.Clone(x)
	default:
		return v
	}
}
