package fetch

import (
	"context"
	"log/slog"
	"path"
	"strings"

	"git.home.luguber.info/inful/docsync/internal/config"
	"git.home.luguber.info/inful/docsync/internal/forge"
	"git.home.luguber.info/inful/docsync/internal/logfields"
	"git.home.luguber.info/inful/docsync/internal/metrics"
)

// API operation labels used for metrics.
const (
	OpDefaultBranch = "default_branch"
	OpTree          = "tree"
	OpContent       = "content"
)

// Source is the subset of the forge client the processor needs.
type Source interface {
	DefaultBranch(ctx context.Context, ref config.RepositoryRef) (string, error)
	Tree(ctx context.Context, ref config.RepositoryRef, branch string) ([]forge.TreeEntry, bool, error)
	FileContent(ctx context.Context, ref config.RepositoryRef, path, branch string) (string, error)
}

// Files maps repository-relative paths to decoded file text.
type Files map[string]string

// Result is what one repository contributed to a run.
type Result struct {
	Ref       config.RepositoryRef
	Branch    string
	Files     Files
	Found     int // Markdown blobs listed in the tree
	Failed    int // Markdown blobs that could not be downloaded
	Truncated bool
}

// Processor fetches repositories one at a time.
type Processor struct {
	src      Source
	logger   *slog.Logger
	recorder metrics.Recorder
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the logger; the default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Processor) {
		if r != nil {
			p.recorder = r
		}
	}
}

// NewProcessor creates a processor reading from src.
func NewProcessor(src Source, opts ...Option) *Processor {
	p := &Processor{src: src, logger: slog.Default(), recorder: metrics.NoopRecorder{}}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// IsMarkdown reports whether a tree entry is a Markdown file.
func IsMarkdown(e forge.TreeEntry) bool {
	return e.IsBlob() && strings.HasSuffix(e.Path, ".md")
}

// FetchRepository downloads every Markdown file of ref.
//
// A failure to resolve the branch or list the tree is returned as the
// classified forge error together with an empty Result; the caller decides
// whether to continue. Individual file failures are logged and counted in
// Result.Failed. Files with empty content are skipped.
func (p *Processor) FetchRepository(ctx context.Context, ref config.RepositoryRef) (Result, error) {
	res := Result{Ref: ref, Files: Files{}}
	log := p.logger.With(logfields.Repository(ref.FullName()))

	branch := ref.Branch
	if branch == "" {
		b, err := p.src.DefaultBranch(ctx, ref)
		p.recorder.IncAPIRequest(OpDefaultBranch, string(forge.OutcomeOf(err)))
		if err != nil {
			return res, err
		}
		branch = b
	}
	res.Branch = branch
	log = log.With(logfields.Branch(branch))

	entries, truncated, err := p.src.Tree(ctx, ref, branch)
	p.recorder.IncAPIRequest(OpTree, string(forge.OutcomeOf(err)))
	if err != nil {
		return res, err
	}
	if truncated {
		res.Truncated = true
		log.Warn("⚠️  Tree listing truncated, some files will be missing", logfields.Count(len(entries)))
	}

	var wanted []string
	for _, e := range entries {
		if IsMarkdown(e) {
			wanted = append(wanted, e.Path)
		}
	}
	res.Found = len(wanted)
	log.Info("Found markdown files", logfields.Count(len(wanted)))

	for _, filePath := range wanted {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		content, err := p.src.FileContent(ctx, ref, filePath, branch)
		outcome := forge.OutcomeOf(err)
		p.recorder.IncAPIRequest(OpContent, string(outcome))
		if err != nil {
			res.Failed++
			log.Warn("⚠️  Error fetching file",
				logfields.Path(filePath),
				logfields.Outcome(string(outcome)),
				logfields.Status(forge.StatusCode(err)),
				logfields.Error(err))
			continue
		}
		if content == "" {
			log.Debug("Skipping empty file", logfields.Path(filePath))
			continue
		}
		log.Debug("Fetched file", logfields.Path(filePath))
		res.Files[path.Clean(filePath)] = content
	}
	return res, nil
}
