package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsync/internal/foundation/errors"
)

func writeFile(t *testing.T, p, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func readFile(t *testing.T, p string) string {
	t.Helper()
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	return string(data)
}

func TestPrepare_CreatesRootAndHomePage(t *testing.T) {
	root := filepath.Join(t.TempDir(), "docs")
	tree := NewTree(root, "", nil)

	require.NoError(t, tree.Prepare())
	assert.DirExists(t, root)
	assert.Equal(t, DefaultHomeContent, readFile(t, filepath.Join(root, "index.md")))
}

func TestPrepare_KeepsOnlyHomePage(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.md"), "# Welcome\n")
	writeFile(t, filepath.Join(root, "stale.md"), "old")
	writeFile(t, filepath.Join(root, "old-repo", "README.md"), "old")
	writeFile(t, filepath.Join(root, ".cache", "x"), "old")
	writeFile(t, filepath.Join(root, "index.md.bak"), "old")

	require.NoError(t, NewTree(root, "index.md", nil).Prepare())

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "index.md", entries[0].Name())
	assert.Equal(t, "# Welcome\n", readFile(t, filepath.Join(root, "index.md")))
}

func TestPrepare_DirectoryNamedLikeHomePageIsRemoved(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "index.md"), 0o755))

	require.NoError(t, NewTree(root, "index.md", nil).Prepare())
	info, err := os.Stat(filepath.Join(root, "index.md"))
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}

func TestPrepare_RootIsFile(t *testing.T) {
	root := filepath.Join(t.TempDir(), "docs")
	writeFile(t, root, "not a directory")

	err := NewTree(root, "index.md", nil).Prepare()
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
}

func TestWriteRepository(t *testing.T) {
	root := t.TempDir()
	tree := NewTree(root, "index.md", nil)

	n, err := tree.WriteRepository("Matrix_project", map[string]string{
		"README.md":          "# Matrix\n",
		"docs/deep/guide.md": "guide ✓",
		"docs/../notes.md":   "notes",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "# Matrix\n", readFile(t, filepath.Join(root, "Matrix_project", "README.md")))
	assert.Equal(t, "guide ✓", readFile(t, filepath.Join(root, "Matrix_project", "docs", "deep", "guide.md")))
	assert.Equal(t, "notes", readFile(t, filepath.Join(root, "Matrix_project", "notes.md")))

	// Overwrite
	n, err = tree.WriteRepository("Matrix_project", map[string]string{"README.md": "v2"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "v2", readFile(t, filepath.Join(root, "Matrix_project", "README.md")))
}

func TestWriteRepository_RejectsTraversal(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "docs")
	tree := NewTree(root, "index.md", nil)
	require.NoError(t, tree.Prepare())

	n, err := tree.WriteRepository("repo", map[string]string{
		"../escape.md":       "x",
		"../../outside.md":   "x",
		"/etc/absolute.md":   "x",
		"a/../../sibling.md": "x",
		"ok.md":              "fine",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.FileExists(t, filepath.Join(root, "repo", "ok.md"))
	assert.NoFileExists(t, filepath.Join(root, "escape.md"))
	assert.NoFileExists(t, filepath.Join(parent, "outside.md"))
	assert.NoFileExists(t, filepath.Join(root, "sibling.md"))
}

func TestWriteRepository_InvalidRepoName(t *testing.T) {
	tree := NewTree(t.TempDir(), "index.md", nil)
	for _, name := range []string{"", ".", "..", "a/b", ".hidden"} {
		_, err := tree.WriteRepository(name, map[string]string{"a.md": "x"})
		assert.Error(t, err, name)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		rel  string
		want string
		ok   bool
	}{
		{"a.md", filepath.Join("base", "a.md"), true},
		{"x/y/z.md", filepath.Join("base", "x", "y", "z.md"), true},
		{"./a.md", filepath.Join("base", "a.md"), true},
		{"", "", false},
		{"..", "", false},
		{"../a.md", "", false},
		{"/a.md", "", false},
	}
	for _, tt := range tests {
		got, ok := resolve("base", tt.rel)
		assert.Equal(t, tt.ok, ok, tt.rel)
		assert.Equal(t, tt.want, got, tt.rel)
	}
}
