package workspace

import (
	"fmt"
	"maps"
	"strings"

	"github.com/nxplus/nxplus/pkg/models"
)

// Target identifies project:target[:configuration].
type Target struct {
	Project       string
	Target        string
	Configuration string
}

// String formats the target back into its colon-separated form.
func (t Target) String() string {
	s := t.Project + ":" + t.Target
	if t.Configuration != "" {
		s += ":" + t.Configuration
	}
	return s
}

// ParseTargetString parses "project:target" or "project:target:configuration".
func ParseTargetString(s string) (Target, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Target{}, fmt.Errorf("%w: %q (want project:target[:configuration])", ErrInvalidTarget, s)
	}
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return Target{}, fmt.Errorf("%w: %q has an empty segment", ErrInvalidTarget, s)
		}
	}
	t := Target{Project: parts[0], Target: parts[1]}
	if len(parts) == 3 {
		t.Configuration = parts[2]
	}
	return t, nil
}

// TargetDefinition looks up the target definition a Target points at.
func (w *Workspace) TargetDefinition(t Target) (models.TargetDefinition, error) {
	p, err := w.Project(t.Project)
	if err != nil {
		return models.TargetDefinition{}, err
	}
	def, ok := p.Targets[t.Target]
	if !ok {
		return models.TargetDefinition{}, fmt.Errorf("%w: %s:%s", ErrTargetNotFound, t.Project, t.Target)
	}
	return def, nil
}

// ReadTargetOptions returns the target's base options merged with the
// requested configuration (or the target's default configuration when none
// is named). The returned map is a copy.
func (w *Workspace) ReadTargetOptions(t Target) (models.Options, error) {
	def, err := w.TargetDefinition(t)
	if err != nil {
		return nil, err
	}
	configuration := t.Configuration
	if configuration == "" {
		configuration = def.DefaultConfiguration
	}
	if configuration == "" {
		return MergeOptions(def.Options, nil), nil
	}
	override, ok := def.Configurations[configuration]
	if !ok {
		return nil, fmt.Errorf("%w: %s (target %s:%s)", ErrConfigurationNotFound, configuration, t.Project, t.Target)
	}
	return MergeOptions(def.Options, override), nil
}

// MergeOptions lays override on top of base one key at a time. Keys present
// in override win; keys only in base keep their value. Nested values are
// replaced, not merged. Neither input is modified.
func MergeOptions(base, override models.Options) models.Options {
	out := models.CloneOptions(base)
	if out == nil {
		out = models.Options{}
	}
	maps.Copy(out, models.CloneOptions(override))
	return out
}
