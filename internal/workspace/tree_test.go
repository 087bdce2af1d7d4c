package workspace

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTreeStagesUntilCommit(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "existing.txt"), []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	tree := NewTree(root, nil)
	if err := tree.Write("apps/a/main.ts", []byte("console.log(1)")); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if err := tree.Write("existing.txt", []byte("new")); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "apps", "a", "main.ts")); !os.IsNotExist(err) {
		t.Fatalf("file written before commit: %v", err)
	}
	got, err := tree.Read("existing.txt")
	if err != nil || string(got) != "new" {
		t.Fatalf("Read staged = %q, %v; want \"new\"", got, err)
	}
	orig, err := tree.ReadOriginal("existing.txt")
	if err != nil || string(orig) != "old" {
		t.Fatalf("ReadOriginal = %q, %v; want \"old\"", orig, err)
	}

	wantChanges := []FileChange{
		{Path: "apps/a/main.ts", Type: ChangeCreate, Content: []byte("console.log(1)")},
		{Path: "existing.txt", Type: ChangeUpdate, Content: []byte("new")},
	}
	if diff := cmp.Diff(wantChanges, tree.Changes()); diff != "" {
		t.Errorf("Changes mismatch (-want +got):\n%s", diff)
	}

	if err := tree.Commit(); err != nil {
		t.Fatalf("Commit error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, "apps", "a", "main.ts"))
	if err != nil || string(data) != "console.log(1)" {
		t.Errorf("committed content = %q, %v", data, err)
	}
	if len(tree.Changes()) != 0 {
		t.Errorf("staging area not cleared after commit")
	}
}

func TestTreeDiscard(t *testing.T) {
	root := t.TempDir()
	tree := NewTree(root, nil)
	_ = tree.Write("a.txt", []byte("a"))
	tree.Discard()

	if tree.Exists("a.txt") {
		t.Error("discarded file still visible")
	}
	if err := tree.Commit(); err != nil {
		t.Fatalf("Commit error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "a.txt")); !os.IsNotExist(err) {
		t.Error("discarded file reached disk")
	}
}

func TestTreeDelete(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "gone.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	tree := NewTree(root, nil)

	t.Run("staged_only_file_is_dropped", func(t *testing.T) {
		_ = tree.Write("tmp.txt", []byte("x"))
		tree.Delete("tmp.txt")
		if tree.Exists("tmp.txt") {
			t.Error("tmp.txt should not exist")
		}
		for _, c := range tree.Changes() {
			if c.Path == "tmp.txt" {
				t.Errorf("unexpected change for staged-only delete: %+v", c)
			}
		}
	})

	t.Run("disk_file_is_deleted_on_commit", func(t *testing.T) {
		tree.Delete("gone.txt")
		if _, err := tree.Read("gone.txt"); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Read deleted file error = %v, want fs.ErrNotExist", err)
		}
		if err := tree.Commit(); err != nil {
			t.Fatalf("Commit error: %v", err)
		}
		if _, err := os.Stat(filepath.Join(root, "gone.txt")); !os.IsNotExist(err) {
			t.Error("gone.txt still on disk")
		}
	})
}

func TestTreeRejectsEscapingPaths(t *testing.T) {
	tree := NewTree(t.TempDir(), nil)
	for _, p := range []string{"../outside.txt", "/etc/passwd", "a/../../b"} {
		if err := tree.Write(p, []byte("x")); !errors.Is(err, ErrPathTraversal) {
			t.Errorf("Write(%q) error = %v, want ErrPathTraversal", p, err)
		}
	}
}

func TestTreeFilesMergesDiskAndStaged(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "apps", "a"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "apps", "a", "disk.ts"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "apps", "a", "removed.ts"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	tree := NewTree(root, nil)
	_ = tree.Write("apps/a/staged.ts", nil)
	_ = tree.Write("apps/b/other.ts", nil)
	tree.Delete("apps/a/removed.ts")

	want := []string{"apps/a/disk.ts", "apps/a/staged.ts"}
	if diff := cmp.Diff(want, tree.Files("apps/a")); diff != "" {
		t.Errorf("Files mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"apps/a/staged.ts"}, tree.StagedFiles("apps/a")); diff != "" {
		t.Errorf("StagedFiles mismatch (-want +got):\n%s", diff)
	}
}
