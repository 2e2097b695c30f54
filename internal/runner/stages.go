package runner

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/docsync/internal/config"
	"git.home.luguber.info/inful/docsync/internal/fetch"
	"git.home.luguber.info/inful/docsync/internal/forge"
	"git.home.luguber.info/inful/docsync/internal/foundation/errors"
	"git.home.luguber.info/inful/docsync/internal/logfields"
	"git.home.luguber.info/inful/docsync/internal/mkdocs"
	"git.home.luguber.info/inful/docsync/internal/nav"
)

func (r *Runner) checkCredentials(_ context.Context, st *runState) error {
	token, err := r.cfg.Credential()
	if err != nil {
		return err
	}
	if st.source != nil {
		return nil
	}
	client, err := forge.NewGitHubClientFromConfig(r.cfg, token)
	if err != nil {
		return err
	}
	st.source = client
	return nil
}

func (r *Runner) prepareOutput(_ context.Context, st *runState) error {
	r.logger.Info("📁 Preparing output directory",
		logfields.Path(st.tree.Root()),
		slog.String("home_page", st.tree.HomePage()))
	return st.tree.Prepare()
}

func (r *Runner) fetchRepositories(ctx context.Context, st *runState) error {
	processor := fetch.NewProcessor(st.source,
		fetch.WithLogger(r.logger),
		fetch.WithRecorder(r.recorder))

	r.logger.Info("🚀 Starting to fetch markdown files from repositories",
		logfields.Count(len(r.cfg.Repositories)))

	for _, ref := range r.cfg.Repositories {
		if err := ctx.Err(); err != nil {
			return err
		}
		result, err := r.fetchOne(ctx, st, processor, ref)
		st.report.Repositories = append(st.report.Repositories, result)
		if err != nil {
			return err
		}
	}
	return nil
}

// fetchOne fetches and writes one repository. Only cancellation and write
// failures are returned; everything else is recorded on the result.
func (r *Runner) fetchOne(ctx context.Context, st *runState, p *fetch.Processor, ref config.RepositoryRef) (RepositoryResult, error) {
	log := r.logger.With(logfields.Repository(ref.FullName()))
	log.Info("📦 Fetching repository")

	res, err := p.FetchRepository(ctx, ref)
	result := RepositoryResult{
		Repository: ref.FullName(),
		Branch:     res.Branch,
		Found:      res.Found,
		Failed:     res.Failed,
		Outcome:    string(forge.OutcomeOf(err)),
	}
	if err != nil {
		if isCanceled(ctx, err) {
			return result, err
		}
		st.warn()
		result.Error = err.Error()
		r.recorder.IncRepositoryResult(result.Outcome)
		switch forge.OutcomeOf(err) {
		case forge.OutcomeNotFound:
			log.Warn("⚠️  Repository not found or not accessible", logfields.Error(err))
		case forge.OutcomeTransient:
			log.Warn("⚠️  Temporary error fetching repository, a later run may succeed",
				logfields.Status(forge.StatusCode(err)),
				logfields.Error(err))
		default:
			log.Warn("⚠️  Error fetching repository",
				logfields.Status(forge.StatusCode(err)),
				logfields.Error(err))
		}
		return result, nil
	}
	if res.Failed > 0 || res.Truncated {
		st.warn()
	}

	if len(res.Files) == 0 {
		result.Outcome = RepositoryOutcomeEmpty
		r.recorder.IncRepositoryResult(result.Outcome)
		r.recorder.SetRepositoryFiles(ref.Name(), 0)
		log.Info("No markdown files to write")
		return result, nil
	}

	n, err := st.tree.WriteRepository(ref.Name(), res.Files)
	result.Files = n
	r.recorder.IncRepositoryResult(result.Outcome)
	r.recorder.SetRepositoryFiles(ref.Name(), n)
	if err != nil {
		return result, err
	}
	if n < len(res.Files) {
		st.warn()
	}
	log.Info("Saved markdown files", logfields.Count(n))
	return result, nil
}

func (r *Runner) buildNavigation(_ context.Context, st *runState) error {
	r.logger.Info("📝 Generating navigation")
	opts := nav.OptionsFromConfig(r.cfg)
	opts.Root = st.tree.Root()
	opts.HomePage = st.tree.HomePage()
	opts.Logger = r.logger
	n, err := nav.NewBuilder(opts).Build()
	if err != nil {
		return err
	}
	st.nav = n
	st.report.NavigationEntries = len(n.Leaves())
	return nil
}

func (r *Runner) updateConfig(_ context.Context, st *runState) error {
	path := r.cfg.MkDocs.ConfigFile
	r.logger.Info("📝 Updating mkdocs configuration", logfields.Path(path))

	block, err := st.nav.Block(r.cfg.MkDocs.NavKey)
	if err != nil {
		return errors.NavigationError("failed to serialize navigation").WithCause(err).Build()
	}
	changed, err := mkdocs.UpdateNav(path, r.cfg.MkDocs.NavKey, block)
	if err != nil {
		return err
	}
	st.report.ConfigChanged = changed
	if !changed {
		r.logger.Info("Navigation unchanged", logfields.Path(path))
	}
	return nil
}
