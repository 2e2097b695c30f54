package output

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/docsync/internal/foundation/errors"
	"git.home.luguber.info/inful/docsync/internal/logfields"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// DefaultHomeContent is written when the home page does not exist yet.
const DefaultHomeContent = "# Documentation\n\nDocumentation collected from the synchronized repositories.\n"

// Tree is the output directory.
type Tree struct {
	root     string
	homePage string
	logger   *slog.Logger
}

// NewTree returns a tree rooted at root. homePage is the root-level file
// kept by Prepare; empty means index.md.
func NewTree(root, homePage string, logger *slog.Logger) *Tree {
	if homePage == "" {
		homePage = "index.md"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tree{root: root, homePage: homePage, logger: logger}
}

// Root returns the tree's root directory.
func (t *Tree) Root() string { return t.root }

// HomePage returns the preserved home page file name.
func (t *Tree) HomePage() string { return t.homePage }

// Prepare creates the root when absent, otherwise removes every directory
// and every file except the home page. A missing home page is created.
func (t *Tree) Prepare() error {
	info, err := os.Stat(t.root)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(t.root, dirPerm); err != nil {
			return fsError("failed to create output directory", t.root, err)
		}
		t.logger.Info("Created output directory", logfields.Path(t.root))
	case err != nil:
		return fsError("failed to inspect output directory", t.root, err)
	case !info.IsDir():
		return errors.FileSystemError(fmt.Sprintf("output path is not a directory: %s", t.root)).
			WithContext("path", t.root).
			Build()
	default:
		if err := t.clean(); err != nil {
			return err
		}
	}
	return t.ensureHomePage()
}

func (t *Tree) clean() error {
	items, err := os.ReadDir(t.root)
	if err != nil {
		return fsError("failed to read output directory", t.root, err)
	}
	removed := 0
	for _, item := range items {
		if !item.IsDir() && item.Name() == t.homePage {
			continue
		}
		p := filepath.Join(t.root, item.Name())
		if err := os.RemoveAll(p); err != nil {
			return fsError("failed to clean output directory", p, err)
		}
		removed++
	}
	t.logger.Debug("Cleaned output directory", logfields.Path(t.root), logfields.Count(removed))
	return nil
}

func (t *Tree) ensureHomePage() error {
	p := filepath.Join(t.root, t.homePage)
	if _, err := os.Stat(p); err == nil {
		return nil
	}
	if err := os.WriteFile(p, []byte(DefaultHomeContent), filePerm); err != nil {
		return fsError("failed to create home page", p, err)
	}
	t.logger.Info("Created home page", logfields.Path(p))
	return nil
}

// WriteRepository writes files below <root>/<repoName>, creating parent
// directories and overwriting existing files. Paths that would leave the
// repository directory are logged and skipped. It returns the number of
// files written; a write failure aborts with a filesystem error.
func (t *Tree) WriteRepository(repoName string, files map[string]string) (int, error) {
	if !validRepoName(repoName) {
		return 0, errors.FileSystemError(fmt.Sprintf("invalid repository directory name %q", repoName)).
			WithContext("repository", repoName).
			Build()
	}
	log := t.logger.With(logfields.Repository(repoName))
	repoDir := filepath.Join(t.root, repoName)

	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	written := 0
	for _, rel := range paths {
		target, ok := resolve(repoDir, rel)
		if !ok {
			err := errors.FileSystemError("path escapes repository directory").
				WithContext("repository", repoName).
				WithContext("path", rel).
				Build()
			log.Warn("⚠️  Skipping unsafe path", logfields.Path(rel), logfields.Error(err))
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
			return written, fsError("failed to create directory", filepath.Dir(target), err)
		}
		if err := os.WriteFile(target, []byte(files[rel]), filePerm); err != nil {
			return written, fsError("failed to write file", target, err)
		}
		log.Debug("Wrote file", logfields.Path(rel))
		written++
	}
	return written, nil
}

// resolve maps a slash-separated repository path onto dir. It refuses
// absolute paths and anything that climbs out of dir.
func resolve(dir, rel string) (string, bool) {
	if rel == "" || strings.HasPrefix(rel, "/") || strings.Contains(rel, "\\") {
		return "", false
	}
	clean := path.Clean(rel)
	local := filepath.FromSlash(clean)
	if !filepath.IsLocal(local) {
		return "", false
	}
	return filepath.Join(dir, local), true
}

func validRepoName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`) && !strings.HasPrefix(name, ".")
}

func fsError(msg, p string, err error) error {
	return errors.FileSystemError(msg).WithCause(err).WithContext("path", p).Build()
}
