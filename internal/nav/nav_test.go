package nav

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsync/internal/config"
)

func makeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for p, content := range files {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return root
}

func build(t *testing.T, root string, opts ...func(*Options)) *Nav {
	t.Helper()
	o := Options{Root: root}
	for _, fn := range opts {
		fn(&o)
	}
	n, err := NewBuilder(o).Build()
	require.NoError(t, err)
	return n
}

func labels(s *Section) []string {
	var out []string
	for _, e := range s.Entries() {
		out = append(out, e.Label)
	}
	return out
}

func leaf(t *testing.T, s *Section, path ...string) string {
	t.Helper()
	e, ok := s.lookup(path...)
	require.True(t, ok, "missing %v", path)
	require.False(t, e.IsSection(), "%v is a section", path)
	return e.Path
}

func TestHumanize(t *testing.T) {
	tests := map[string]string{
		"my_file-name":                              "My File Name",
		"getting-started":                           "Getting Started",
		"API_reference":                             "Api Reference",
		"docs":                                      "Docs",
		"v2_notes":                                  "V2 Notes",
		"3track":                                    "3Track",
		"discovery_sms_corpus_analysis_10_34_01_pm": "Discovery Sms Corpus Analysis 10 34 01 Pm",
		"10_34_01_pm":                               "10 34 01 Pm",
		"":                                          "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Humanize(in), in)
	}
}

func TestFileLabel(t *testing.T) {
	assert.Equal(t, "My File Name", FileLabel("repo", "my_file-name.md", "Overview"))
	assert.Equal(t, "Matrix_project Overview", FileLabel("Matrix_project", "README.md", "Overview"))
	assert.Equal(t, "repo Overview", FileLabel("repo", "docs/ReadMe.md", "Overview"))
	assert.Equal(t, "Guide", FileLabel("repo", "docs/guide.md", "Overview"))
}

func TestBuild_Structure(t *testing.T) {
	root := makeTree(t, map[string]string{
		"index.md":                    "# Home",
		"stray.md":                    "root level file",
		"zeta/README.md":              "z",
		"Alpha/docs/guide.md":         "g",
		"Alpha/docs/api_reference.md": "a",
		"Alpha/README.md":             "r",
		"Alpha/notes.txt":             "not markdown",
		"empty/image.png":             "png",
		".hidden/README.md":           "h",
	})

	n := build(t, root)
	assert.Equal(t, []string{"Home", "Alpha", "zeta"}, labels(n.Section))
	assert.Equal(t, "index.md", leaf(t, n.Section, "Home"))

	alpha, ok := n.Get("Alpha")
	require.True(t, ok)
	assert.Equal(t, []string{"Alpha Overview", "Docs"}, labels(alpha.Section))
	assert.Equal(t, "Alpha/README.md", leaf(t, n.Section, "Alpha", "Alpha Overview"))
	docs, _ := alpha.Section.Get("Docs")
	assert.Equal(t, []string{"Api Reference", "Guide"}, labels(docs.Section))
	assert.Equal(t, "Alpha/docs/guide.md", leaf(t, n.Section, "Alpha", "Docs", "Guide"))
	assert.Equal(t, "zeta/README.md", leaf(t, n.Section, "zeta", "zeta Overview"))
}

func TestBuild_HomeOnly(t *testing.T) {
	n := build(t, t.TempDir())
	assert.Equal(t, []string{"Home"}, labels(n.Section))
	assert.Equal(t, []string{"index.md"}, n.Leaves())
}

func TestBuild_MissingRoot(t *testing.T) {
	_, err := NewBuilder(Options{Root: filepath.Join(t.TempDir(), "nope")}).Build()
	require.Error(t, err)
}

func TestBuild_LeafDemotedToOverview(t *testing.T) {
	root := makeTree(t, map[string]string{
		"repo/a.md":   "a",
		"repo/a/b.md": "b",
	})
	n := build(t, root)

	a, ok := n.lookup("repo", "A")
	require.True(t, ok)
	require.True(t, a.IsSection())
	assert.Equal(t, []string{"Overview", "B"}, labels(a.Section))
	assert.Equal(t, "repo/a.md", leaf(t, n.Section, "repo", "A", "Overview"))
	assert.Equal(t, "repo/a/b.md", leaf(t, n.Section, "repo", "A", "B"))
}

func TestBuild_LeafAfterSectionBecomesOverview(t *testing.T) {
	// "my-dir/a.md" sorts before "my_dir.md" and both humanize to "My Dir".
	root := makeTree(t, map[string]string{
		"repo/my-dir/a.md": "a",
		"repo/my_dir.md":   "page",
	})
	n := build(t, root)

	sec, ok := n.lookup("repo", "My Dir")
	require.True(t, ok)
	require.True(t, sec.IsSection())
	assert.Equal(t, []string{"Overview", "A"}, labels(sec.Section))
	assert.Equal(t, "repo/my_dir.md", leaf(t, n.Section, "repo", "My Dir", "Overview"))
}

func TestBuild_DeeperCollisionKeepsFirst(t *testing.T) {
	root := makeTree(t, map[string]string{
		"repo/a.md":          "a",
		"repo/a/b.md":        "b",
		"repo/a/overview.md": "clashes with the demoted page",
		"repo/my-file.md":    "first",
		"repo/my_file.md":    "second",
	})
	var logs bytes.Buffer
	n := build(t, root, func(o *Options) {
		o.Logger = slog.New(slog.NewTextHandler(&logs, nil))
	})

	assert.Equal(t, "repo/a.md", leaf(t, n.Section, "repo", "A", "Overview"))
	assert.Equal(t, "repo/my-file.md", leaf(t, n.Section, "repo", "My File"))
	assert.Len(t, n.Leaves(), 4)
	assert.Contains(t, logs.String(), "Navigation label collision")
}

func TestBuild_HeadingLabels(t *testing.T) {
	root := makeTree(t, map[string]string{
		"repo/README.md":      "# Ignored For Readme\n",
		"repo/setup.md":       "# Installing docsync\n\ntext\n",
		"repo/meta.md":        "---\ntitle: From Frontmatter\n---\n# Heading\n",
		"repo/plain_notes.md": "no heading here\n",
	})
	n := build(t, root, func(o *Options) { o.LabelSource = config.LabelSourceHeading })

	repo, _ := n.Get("repo")
	assert.ElementsMatch(t,
		[]string{"repo Overview", "From Frontmatter", "Plain Notes", "Installing docsync"},
		labels(repo.Section))
}

func TestBuild_CustomLabels(t *testing.T) {
	root := makeTree(t, map[string]string{"repo/README.md": "r", "repo/x.md": "x", "repo/x/y.md": "y"})
	n := build(t, root, func(o *Options) {
		o.HomeLabel = "Start"
		o.HomePage = "start.md"
		o.OverviewLabel = "Intro"
	})
	assert.Equal(t, "start.md", leaf(t, n.Section, "Start"))
	assert.Equal(t, "repo/README.md", leaf(t, n.Section, "repo", "repo Intro"))
	assert.Equal(t, "repo/x.md", leaf(t, n.Section, "repo", "X", "Intro"))
}

func TestBuild_Idempotent(t *testing.T) {
	root := makeTree(t, map[string]string{
		"b/README.md":     "r",
		"b/x/y/z.md":      "z",
		"a/one.md":        "1",
		"a/one/two.md":    "2",
		"a/three-four.md": "3",
	})
	first, err := build(t, root).Block("nav")
	require.NoError(t, err)
	for range 3 {
		again, err := build(t, root).Block("nav")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestBlock_Serialization(t *testing.T) {
	root := makeTree(t, map[string]string{
		"repo/README.md": "r",
		"repo/true.md":   "t",
		"repo/docs/a.md": "a",
	})
	block, err := build(t, root).Block("nav")
	require.NoError(t, err)

	var doc map[string][]map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(block), &doc))
	navList := doc["nav"]
	require.Len(t, navList, 2)
	assert.Equal(t, map[string]any{"Home": "index.md"}, navList[0])

	repo, ok := navList[1]["repo"].([]any)
	require.True(t, ok, "sections must be sequences")
	require.Len(t, repo, 3)
	assert.Equal(t, map[string]any{"repo Overview": "repo/README.md"}, repo[0])
	assert.Equal(t, map[string]any{"Docs": []any{map[string]any{"A": "repo/docs/a.md"}}}, repo[1])

	// Labels that look like other YAML types stay strings.
	var node yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(block), &node))
	repoSeq := node.Content[0].Content[1].Content[1].Content[1]
	trueKey := repoSeq.Content[2].Content[0]
	assert.Equal(t, "True", trueKey.Value)
	assert.Equal(t, "!!str", trueKey.ShortTag())
}

func TestNav_MarshalYAML(t *testing.T) {
	n := &Nav{Section: NewSection()}
	n.AddLeaf("Home", "index.md")
	sec := NewSection()
	sec.AddLeaf("Guide", "r/guide.md")
	require.True(t, n.AddChild("r", sec))
	require.False(t, n.AddChild("r", NewSection()))

	out, err := yaml.Marshal(n)
	require.NoError(t, err)
	var got []map[string]any
	require.NoError(t, yaml.Unmarshal(out, &got))
	assert.Equal(t, []map[string]any{
		{"Home": "index.md"},
		{"r": []any{map[string]any{"Guide": "r/guide.md"}}},
	}, got)
}

func TestSection_AddAndlookup(t *testing.T) {
	s := NewSection()
	assert.True(t, s.AddLeaf("a", "a.md"))
	assert.False(t, s.AddLeaf("a", "other.md"))
	assert.Nil(t, s.AddSection("a"))

	child := s.AddSection("b")
	require.NotNil(t, child)
	assert.Same(t, child, s.AddSection("b"))
	child.AddLeaf("c", "b/c.md")

	_, ok := s.lookup("a", "x")
	assert.False(t, ok)
	_, ok = s.lookup()
	assert.False(t, ok)
	e, ok := s.lookup("b", "c")
	require.True(t, ok)
	assert.Equal(t, "b/c.md", e.Path)
	assert.Equal(t, []string{"a.md", "b/c.md"}, s.Leaves())
}
