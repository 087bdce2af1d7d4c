package workspace

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/nxplus/nxplus/internal/defs"
)

// ChangeType classifies a staged file change.
type ChangeType string

const (
	ChangeCreate ChangeType = "CREATE"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

// FileChange is one staged change, reported relative to the workspace root.
type FileChange struct {
	Path    string
	Type    ChangeType
	Content []byte
}

type stagedFile struct {
	content []byte
	deleted bool
}

// Tree is a staged, uncommitted view of the workspace file system.
// Reads fall through to disk for paths that were not staged. Nothing is
// written to disk until Commit is called, so a generator that fails leaves
// the workspace untouched.
//
// A Tree is not safe for concurrent use; generator runs against the same
// workspace are serialized by the caller.
type Tree struct {
	root   string
	staged map[string]*stagedFile
	logger *slog.Logger
}

// NewTree creates a Tree rooted at the given workspace directory.
func NewTree(root string, logger *slog.Logger) *Tree {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Tree{
		root:   filepath.Clean(root),
		staged: make(map[string]*stagedFile),
		logger: logger,
	}
}

// Root returns the absolute or relative workspace root the tree was created with.
func (t *Tree) Root() string {
	return t.root
}

// normalize converts a caller path into a clean, slash-separated path
// relative to the workspace root.
func normalize(p string) (string, error) {
	p = filepath.ToSlash(p)
	if path.IsAbs(p) || filepath.IsAbs(p) {
		return "", fmt.Errorf("%w: absolute path %q", ErrPathTraversal, p)
	}
	cleaned := path.Clean(p)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: %q", ErrPathTraversal, p)
	}
	return cleaned, nil
}

func (t *Tree) diskPath(rel string) string {
	return filepath.Join(t.root, filepath.FromSlash(rel))
}

// Read returns the staged content for a path, falling back to disk.
// A missing file yields an error matching fs.ErrNotExist.
func (t *Tree) Read(p string) ([]byte, error) {
	rel, err := normalize(p)
	if err != nil {
		return nil, err
	}
	if f, ok := t.staged[rel]; ok {
		if f.deleted {
			return nil, &fs.PathError{Op: "read", Path: rel, Err: fs.ErrNotExist}
		}
		return bytes.Clone(f.content), nil
	}
	return os.ReadFile(t.diskPath(rel))
}

// ReadOriginal returns the on-disk content of a path, ignoring staged
// changes.
func (t *Tree) ReadOriginal(p string) ([]byte, error) {
	rel, err := normalize(p)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(t.diskPath(rel))
}

// Exists reports whether a file exists in the staged view.
func (t *Tree) Exists(p string) bool {
	rel, err := normalize(p)
	if err != nil {
		return false
	}
	if f, ok := t.staged[rel]; ok {
		return !f.deleted
	}
	info, err := os.Stat(t.diskPath(rel))
	return err == nil && !info.IsDir()
}

// Write stages new content for a path.
func (t *Tree) Write(p string, content []byte) error {
	rel, err := normalize(p)
	if err != nil {
		return err
	}
	if rel == "." {
		return fmt.Errorf("%w: cannot write workspace root", ErrPathTraversal)
	}
	t.staged[rel] = &stagedFile{content: bytes.Clone(content)}
	return nil
}

// Delete stages removal of a path. Deleting a file that only exists in the
// staging area drops it entirely.
func (t *Tree) Delete(p string) {
	rel, err := normalize(p)
	if err != nil {
		return
	}
	if _, statErr := os.Stat(t.diskPath(rel)); statErr != nil {
		delete(t.staged, rel)
		return
	}
	t.staged[rel] = &stagedFile{deleted: true}
}

// StagedFiles returns the staged, non-deleted files under dir, sorted.
func (t *Tree) StagedFiles(dir string) []string {
	rel, err := normalize(dir)
	if err != nil {
		return nil
	}
	var out []string
	for p, f := range t.staged {
		if f.deleted {
			continue
		}
		if rel == "." || p == rel || strings.HasPrefix(p, rel+"/") {
			out = append(out, p)
		}
	}
	slices.Sort(out)
	return out
}

// Files returns every file under dir in the staged view (disk files plus
// staged writes, minus staged deletions), sorted.
func (t *Tree) Files(dir string) []string {
	rel, err := normalize(dir)
	if err != nil {
		return nil
	}
	set := make(map[string]bool)
	base := t.diskPath(rel)
	_ = filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if d.Name() == defs.NodeModulesDir || d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		r, relErr := filepath.Rel(t.root, p)
		if relErr == nil {
			set[filepath.ToSlash(r)] = true
		}
		return nil
	})
	for p, f := range t.staged {
		if rel != "." && p != rel && !strings.HasPrefix(p, rel+"/") {
			continue
		}
		set[p] = !f.deleted
	}
	var out []string
	for p, ok := range set {
		if ok {
			out = append(out, p)
		}
	}
	slices.Sort(out)
	return out
}

// Changes returns the staged changes sorted by path.
func (t *Tree) Changes() []FileChange {
	paths := slices.Sorted(maps.Keys(t.staged))
	changes := make([]FileChange, 0, len(paths))
	for _, p := range paths {
		f := t.staged[p]
		_, statErr := os.Stat(t.diskPath(p))
		onDisk := statErr == nil
		switch {
		case f.deleted:
			if onDisk {
				changes = append(changes, FileChange{Path: p, Type: ChangeDelete})
			}
		case onDisk:
			changes = append(changes, FileChange{Path: p, Type: ChangeUpdate, Content: f.content})
		default:
			changes = append(changes, FileChange{Path: p, Type: ChangeCreate, Content: f.content})
		}
	}
	return changes
}

// Commit applies every staged change to disk and clears the staging area.
// Each file is written through a temp file and rename.
func (t *Tree) Commit() error {
	for _, c := range t.Changes() {
		dest := t.diskPath(c.Path)
		switch c.Type {
		case ChangeDelete:
			if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("commit delete %q: %w", c.Path, err)
			}
		default:
			if err := os.MkdirAll(filepath.Dir(dest), defs.DirPerm); err != nil {
				return fmt.Errorf("commit mkdir %q: %w", c.Path, err)
			}
			if err := atomicWrite(dest, c.Content, fileMode(c.Path)); err != nil {
				return fmt.Errorf("commit write %q: %w", c.Path, err)
			}
		}
		t.logger.Debug("committed file", "path", c.Path, "change", c.Type)
	}
	t.Discard()
	return nil
}

// Discard drops all staged changes.
func (t *Tree) Discard() {
	clear(t.staged)
}

func fileMode(p string) fs.FileMode {
	if strings.HasSuffix(p, ".sh") {
		return 0o755
	}
	return defs.FilePerm
}

// atomicWrite writes data to a file atomically using temp file + os.Rename.
func atomicWrite(dest string, data []byte, perm fs.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".nxplus-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	return os.Rename(tmpName, dest)
}
