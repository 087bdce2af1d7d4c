package template

import (
	"github.com/nxplus/nxplus/internal/naming"
	"github.com/nxplus/nxplus/pkg/version"
)

// TemplateContext provides data for template rendering during generation.
// All fields are exported for use with Go's text/template package.
type TemplateContext struct {
	// Name spellings
	Name         string // file-safe project or component name
	ClassName    string
	PropertyName string
	ConstantName string
	FileName     string

	// Project
	ProjectName      string
	ProjectRoot      string
	ProjectDirectory string
	OffsetFromRoot   string // "../../" for apps/my-app
	NpmScope         string
	Tags             []string

	// Generator options
	Style          string // css, scss, less, stylus
	UnitTestRunner string // jest, none
	E2ETestRunner  string // cypress, none
	Routing        bool
	Babel          bool
	VueVersion     int
	IsVue3         bool

	// Extra carries plugin-specific values, e.g. a site title.
	Extra map[string]string

	Version string
}

// ContextOption configures a TemplateContext.
type ContextOption func(*TemplateContext)

// NewTemplateContext creates a TemplateContext with defaults, then applies
// any provided options.
func NewTemplateContext(opts ...ContextOption) *TemplateContext {
	ctx := &TemplateContext{
		Style:          "css",
		UnitTestRunner: "jest",
		E2ETestRunner:  "cypress",
		VueVersion:     3,
		IsVue3:         true,
		Extra:          map[string]string{},
		Version:        version.GetVersion(),
	}
	for _, opt := range opts {
		opt(ctx)
	}
	return ctx
}

// WithProject fills the name and project fields from a normalized schema.
func WithProject(ns naming.NormalizedSchema) ContextOption {
	return func(c *TemplateContext) {
		applyNames(c, naming.Names(ns.Name))
		c.ProjectName = ns.ProjectName
		c.ProjectRoot = ns.ProjectRoot
		c.ProjectDirectory = ns.ProjectDirectory
		c.OffsetFromRoot = ns.OffsetFromRoot
		c.Tags = ns.ParsedTags
	}
}

// WithNames overrides the name spellings, used by generators that render
// a single item (a component) into an existing project.
func WithNames(v naming.Variants) ContextOption {
	return func(c *TemplateContext) {
		applyNames(c, v)
	}
}

func applyNames(c *TemplateContext, v naming.Variants) {
	c.Name = v.FileName
	c.ClassName = v.ClassName
	c.PropertyName = v.PropertyName
	c.ConstantName = v.ConstantName
	c.FileName = v.FileName
}

// WithNpmScope sets the workspace npm scope.
func WithNpmScope(scope string) ContextOption {
	return func(c *TemplateContext) {
		c.NpmScope = scope
	}
}

// WithStyle sets the stylesheet language. Empty values keep the default.
func WithStyle(style string) ContextOption {
	return func(c *TemplateContext) {
		if style != "" {
			c.Style = style
		}
	}
}

// WithTestRunners sets the unit and e2e test runner choices.
func WithTestRunners(unit, e2e string) ContextOption {
	return func(c *TemplateContext) {
		if unit != "" {
			c.UnitTestRunner = unit
		}
		if e2e != "" {
			c.E2ETestRunner = e2e
		}
	}
}

// WithRouting enables router scaffolding.
func WithRouting(enabled bool) ContextOption {
	return func(c *TemplateContext) {
		c.Routing = enabled
	}
}

// WithBabel enables babel configuration files.
func WithBabel(enabled bool) ContextOption {
	return func(c *TemplateContext) {
		c.Babel = enabled
	}
}

// WithVueVersion sets the Vue major version. Unknown versions are ignored.
func WithVueVersion(v int) ContextOption {
	return func(c *TemplateContext) {
		if v == 2 || v == 3 {
			c.VueVersion = v
			c.IsVue3 = v == 3
		}
	}
}

// WithExtra sets a plugin-specific value.
func WithExtra(key, value string) ContextOption {
	return func(c *TemplateContext) {
		c.Extra[key] = value
	}
}

// pathTokens returns the __token__ substitutions applied to template paths.
func (c *TemplateContext) pathTokens() map[string]string {
	return map[string]string{
		"name":         c.Name,
		"fileName":     c.FileName,
		"className":    c.ClassName,
		"propertyName": c.PropertyName,
		"projectName":  c.ProjectName,
		"style":        c.Style,
		"dot":          ".",
		"tmpl":         "",
	}
}
