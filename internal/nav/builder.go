package nav

import (
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/docsync/internal/config"
	"git.home.luguber.info/inful/docsync/internal/foundation/errors"
	"git.home.luguber.info/inful/docsync/internal/logfields"
	"git.home.luguber.info/inful/docsync/internal/markdown"
)

// Options configures a Builder. Zero values fall back to the defaults of
// package config.
type Options struct {
	Root          string
	HomeLabel     string
	HomePage      string
	OverviewLabel string
	LabelSource   config.LabelSource
	Logger        *slog.Logger
}

// OptionsFromConfig maps the loaded configuration onto builder options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Root:          cfg.Output.Directory,
		HomeLabel:     cfg.Nav.HomeLabel,
		HomePage:      cfg.Output.HomePage,
		OverviewLabel: cfg.Nav.OverviewLabel,
		LabelSource:   cfg.Nav.LabelSource,
	}
}

// Builder scans the output tree and produces the navigation.
type Builder struct {
	opts   Options
	logger *slog.Logger
}

// NewBuilder returns a builder for opts.
func NewBuilder(opts Options) *Builder {
	if opts.HomeLabel == "" {
		opts.HomeLabel = config.DefaultHomeLabel
	}
	if opts.HomePage == "" {
		opts.HomePage = config.DefaultHomePage
	}
	if opts.OverviewLabel == "" {
		opts.OverviewLabel = config.DefaultOverviewLabel
	}
	if opts.LabelSource == "" {
		opts.LabelSource = config.LabelSourceFilename
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{opts: opts, logger: logger}
}

// Build always starts with the home entry, then adds one section per
// repository directory that contains Markdown files, sorted by name.
func (b *Builder) Build() (*Nav, error) {
	n := &Nav{Section: NewSection()}
	n.AddLeaf(b.opts.HomeLabel, b.opts.HomePage)

	repos, err := b.repositories()
	if err != nil {
		return nil, err
	}
	for _, repo := range repos {
		files, err := b.markdownFiles(repo)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			b.logger.Debug("Skipping repository without markdown", logfields.Repository(repo))
			continue
		}

		sec := NewSection()
		for _, rel := range files {
			b.insert(sec, repo, rel)
		}
		if !n.AddChild(repo, sec) {
			b.logger.Warn("⚠️  Repository label collides with an existing entry", logfields.Repository(repo))
		}
		b.logger.Debug("Added repository to navigation", logfields.Repository(repo), logfields.Count(len(files)))
	}
	return n, nil
}

// repositories lists the non-hidden directories directly under the root.
func (b *Builder) repositories() ([]string, error) {
	items, err := os.ReadDir(b.opts.Root)
	if err != nil {
		return nil, errors.NavigationError("failed to read documentation directory").
			WithCause(err).
			WithContext("path", b.opts.Root).
			Build()
	}
	var out []string
	for _, item := range items {
		if item.IsDir() && !strings.HasPrefix(item.Name(), ".") {
			out = append(out, item.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

// markdownFiles returns the slash-separated paths of every *.md file below
// repo, relative to repo and sorted.
func (b *Builder) markdownFiles(repo string) ([]string, error) {
	dir := filepath.Join(b.opts.Root, repo)
	var out []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, errors.NavigationError("failed to scan repository directory").
			WithCause(err).
			WithContext("repository", repo).
			Build()
	}
	sort.Strings(out)
	return out, nil
}

func (b *Builder) insert(root *Section, repo, rel string) {
	sitePath := repo + "/" + rel
	label := b.label(repo, rel)
	log := b.logger.With(logfields.Repository(repo), logfields.Path(sitePath))

	cur := root
	if dir := path.Dir(rel); dir != "." {
		for _, part := range strings.Split(dir, "/") {
			cur = b.descend(cur, Humanize(part), log)
		}
	}

	existing, ok := cur.Get(label)
	switch {
	case !ok:
		cur.AddLeaf(label, sitePath)
	case existing.IsSection():
		// A section with this label exists already: the page becomes its overview.
		if !existing.Section.insertFront(b.opts.OverviewLabel, sitePath) {
			log.Warn("⚠️  Navigation label collision, keeping first entry", logfields.Label(label+"/"+b.opts.OverviewLabel))
		}
	default:
		log.Warn("⚠️  Navigation label collision, keeping first entry", logfields.Label(label))
	}
}

// descend returns the child section labelled label, creating it, or
// demoting a leaf with that label to the section's overview entry.
func (b *Builder) descend(cur *Section, label string, log *slog.Logger) *Section {
	existing, ok := cur.Get(label)
	if !ok {
		return cur.AddSection(label)
	}
	if !existing.IsSection() {
		log.Debug("Demoting page to section overview", logfields.Label(label))
		child := NewSection()
		child.AddLeaf(b.opts.OverviewLabel, existing.Path)
		existing.Path = ""
		existing.Section = child
	}
	return existing.Section
}

func (b *Builder) label(repo, rel string) string {
	if b.opts.LabelSource == config.LabelSourceHeading && !IsReadme(rel) {
		content, err := os.ReadFile(filepath.Join(b.opts.Root, repo, filepath.FromSlash(rel)))
		if err == nil {
			if title := markdown.Title(content); title != "" {
				return title
			}
		}
	}
	return FileLabel(repo, rel, b.opts.OverviewLabel)
}
