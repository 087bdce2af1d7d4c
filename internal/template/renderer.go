package template

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"text/template"
)

// templateFuncMap provides custom functions available in all templates.
var templateFuncMap = template.FuncMap{
	// jsonEscape escapes a string for safe embedding in JSON values.
	"jsonEscape": func(s string) string {
		b, err := json.Marshal(s)
		if err != nil {
			return s
		}
		return string(b[1 : len(b)-1])
	},
	// posixPath converts Windows backslash paths to forward-slash POSIX paths.
	"posixPath": func(s string) string {
		return strings.ReplaceAll(s, "\\", "/")
	},
	// mustache emits a literal Vue interpolation, {{ expr }}.
	"mustache": func(expr string) string {
		return "{{ " + expr + " }}"
	},
	// jsonList renders a string slice as a JSON array.
	"jsonList": func(items []string) string {
		if items == nil {
			items = []string{}
		}
		b, _ := json.Marshal(items)
		return string(b)
	},
}

// unexpandedTokenPattern detects template syntax that survived rendering:
// Go template field references and EJS tags.
var unexpandedTokenPattern = regexp.MustCompile(`\{\{\s*\.[A-Za-z_][A-Za-z0-9_.]*\s*\}\}|<%=?\s*[A-Za-z_][^%]*%>`)

// Renderer renders Go text/template files with strict mode enabled.
type Renderer interface {
	// Render parses the named template from the filesystem and executes
	// it with the given data. Returns ErrMissingTemplateKey if a key is
	// missing and ErrUnexpandedToken if tokens remain after rendering.
	Render(templateName string, data any) ([]byte, error)
}

type renderer struct {
	fsys fs.FS
}

// NewRenderer creates a Renderer backed by the given filesystem.
func NewRenderer(fsys fs.FS) Renderer {
	return &renderer{fsys: fsys}
}

// Render parses and executes a template with strict mode (missingkey=error).
func (r *renderer) Render(templateName string, data any) ([]byte, error) {
	content, err := fs.ReadFile(r.fsys, templateName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, templateName)
	}

	tmpl, err := template.New(templateName).
		Funcs(templateFuncMap).
		Option("missingkey=error").
		Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("template parse %q: %w", templateName, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingTemplateKey, err)
	}

	result := buf.Bytes()
	if loc := unexpandedTokenPattern.Find(result); loc != nil {
		return nil, fmt.Errorf("%w: %s: found %q", ErrUnexpandedToken, templateName, string(loc))
	}
	return result, nil
}
