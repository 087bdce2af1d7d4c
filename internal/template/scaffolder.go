package template

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"regexp"
	"slices"
	"strings"

	"github.com/nxplus/nxplus/internal/workspace"
)

// pathTokenPattern matches __token__ segments in template paths.
var pathTokenPattern = regexp.MustCompile(`__([A-Za-z]+)__`)

// passthroughPathTokens are directory names used by tools themselves and
// must not be treated as template tokens.
var passthroughPathTokens = []string{"__tests__", "__mocks__", "__snapshots__"}

// Scaffolder renders a template directory into the staged workspace tree.
type Scaffolder interface {
	// Generate renders every file under src in the template filesystem into
	// dest inside tree. Path segments like __fileName__ are substituted
	// from tmplCtx; files ending in .tmpl are rendered and saved without the
	// suffix. It returns the workspace-relative paths written, sorted.
	Generate(ctx context.Context, tree *workspace.Tree, src, dest string, tmplCtx *TemplateContext) ([]string, error)

	// ExtractTemplate returns the raw content of a single template by name.
	ExtractTemplate(name string) ([]byte, error)

	// ListTemplates returns the target paths of all templates under src.
	ListTemplates(src string) []string
}

type scaffolder struct {
	fsys     fs.FS
	renderer Renderer
	logger   *slog.Logger
}

// NewScaffolder creates a Scaffolder backed by the given filesystem.
// In production the fs.FS comes from go:embed; in tests use testing/fstest.MapFS.
func NewScaffolder(fsys fs.FS, logger *slog.Logger) Scaffolder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &scaffolder{fsys: fsys, renderer: NewRenderer(fsys), logger: logger}
}

func (s *scaffolder) Generate(ctx context.Context, tree *workspace.Tree, src, dest string, tmplCtx *TemplateContext) ([]string, error) {
	info, err := fs.Stat(s.fsys, src)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: directory %s", ErrTemplateNotFound, src)
	}
	if tmplCtx == nil {
		tmplCtx = NewTemplateContext()
	}
	tokens := tmplCtx.pathTokens()

	var written []string
	walkErr := fs.WalkDir(s.fsys, src, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if entry.IsDir() {
			return nil
		}

		rel := strings.TrimPrefix(p, src+"/")
		if src == "." {
			rel = p
		}
		isTemplate := strings.HasSuffix(rel, ".tmpl")
		target, err := substitutePath(strings.TrimSuffix(rel, ".tmpl"), tokens)
		if err != nil {
			return err
		}
		if err := validateDestPath(target); err != nil {
			return err
		}

		var content []byte
		if isTemplate {
			content, err = s.renderer.Render(p, tmplCtx)
			if err != nil {
				return fmt.Errorf("template render %q: %w", p, err)
			}
		} else {
			content, err = fs.ReadFile(s.fsys, p)
			if err != nil {
				return fmt.Errorf("template read %q: %w", p, err)
			}
		}

		destPath := path.Join(dest, target)
		if err := tree.Write(destPath, content); err != nil {
			return fmt.Errorf("template stage %q: %w", destPath, err)
		}
		written = append(written, destPath)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	slices.Sort(written)
	s.logger.Debug("scaffolded templates", "src", src, "dest", dest, "files", len(written))
	return written, nil
}

func (s *scaffolder) ExtractTemplate(name string) ([]byte, error) {
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	return data, nil
}

func (s *scaffolder) ListTemplates(src string) []string {
	var list []string
	_ = fs.WalkDir(s.fsys, src, func(p string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return nil
		}
		rel := strings.TrimPrefix(p, src+"/")
		list = append(list, strings.TrimSuffix(rel, ".tmpl"))
		return nil
	})
	return list
}

// substitutePath replaces __token__ segments. Unknown tokens are an error
// so that a typo in a template file name never reaches the workspace.
func substitutePath(p string, tokens map[string]string) (string, error) {
	var unknown error
	out := pathTokenPattern.ReplaceAllStringFunc(p, func(m string) string {
		if slices.Contains(passthroughPathTokens, m) {
			return m
		}
		key := m[2 : len(m)-2]
		v, ok := tokens[key]
		if !ok {
			unknown = errors.Join(unknown, fmt.Errorf("%w: %s in %q", ErrUnexpandedToken, m, p))
			return m
		}
		return v
	})
	if unknown != nil {
		return "", unknown
	}
	return out, nil
}

// validateDestPath ensures a substituted template path stays inside dest.
func validateDestPath(rel string) error {
	if path.IsAbs(rel) {
		return fmt.Errorf("%w: absolute path %q", ErrPathTraversal, rel)
	}
	cleaned := path.Clean(rel)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return fmt.Errorf("%w: %q", ErrPathTraversal, rel)
	}
	return nil
}
