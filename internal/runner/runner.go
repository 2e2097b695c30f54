// Package runner executes a docsync run: credentials, output tree,
// repository fetches, navigation and the mkdocs.yml update, in that order.
package runner

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docsync/internal/config"
	"git.home.luguber.info/inful/docsync/internal/fetch"
	"git.home.luguber.info/inful/docsync/internal/foundation/errors"
	"git.home.luguber.info/inful/docsync/internal/logfields"
	"git.home.luguber.info/inful/docsync/internal/metrics"
	"git.home.luguber.info/inful/docsync/internal/nav"
	"git.home.luguber.info/inful/docsync/internal/output"
)

// Runner owns the configuration and collaborators of a run.
type Runner struct {
	cfg      *config.Config
	logger   *slog.Logger
	recorder metrics.Recorder
	source   fetch.Source
	runID    string
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the base logger; the run ID is added to it.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(r *Runner) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// WithSource replaces the GitHub client built from the configuration.
// Credentials are still required.
func WithSource(src fetch.Source) Option {
	return func(r *Runner) { r.source = src }
}

// WithRunID fixes the run identifier instead of generating one.
func WithRunID(id string) Option {
	return func(r *Runner) { r.runID = id }
}

// New creates a runner for cfg.
func New(cfg *config.Config, opts ...Option) *Runner {
	r := &Runner{
		cfg:      cfg,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.runID == "" {
		r.runID = uuid.NewString()
	}
	r.logger = r.logger.With(logfields.RunID(r.runID))
	return r
}

// runState is shared by the stages of one run.
type runState struct {
	report *Report
	tree   *output.Tree
	nav    *nav.Nav
	source fetch.Source
	warned bool
}

func (st *runState) warn() { st.warned = true }

// Run executes the full pipeline. Per-repository and per-file failures are
// logged and reported; only fatal errors are returned. The report is
// returned in both cases.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	return r.run(ctx, []StageDef{
		{StageCheckCredentials, r.checkCredentials},
		{StagePrepareOutput, r.prepareOutput},
		{StageFetchRepositories, r.fetchRepositories},
		{StageBuildNavigation, r.buildNavigation},
		{StageUpdateConfig, r.updateConfig},
	})
}

// RebuildNavigation regenerates the navigation from the existing output
// tree and updates mkdocs.yml without touching the network.
func (r *Runner) RebuildNavigation(ctx context.Context) (*Report, error) {
	return r.run(ctx, []StageDef{
		{StageBuildNavigation, r.buildNavigation},
		{StageUpdateConfig, r.updateConfig},
	})
}

func (r *Runner) run(ctx context.Context, stages []StageDef) (*Report, error) {
	st := &runState{
		report: newReport(r.runID),
		tree:   output.NewTree(r.cfg.Output.Directory, r.cfg.Output.HomePage, r.logger),
		source: r.source,
	}

	err := r.runStages(ctx, st, stages)

	st.report.Finish()
	st.report.DeriveOutcome()
	r.recorder.ObserveRunDuration(st.report.Duration())
	r.recorder.IncRunOutcome(string(st.report.Outcome))
	r.logger.Info("Run finished",
		logfields.Outcome(string(st.report.Outcome)),
		logfields.DurationMS(float64(st.report.Duration().Milliseconds())),
		logfields.Summary(st.report.Summary()))
	return st.report, err
}

// runStages executes stages in order, recording timing and stopping on the
// first error.
func (r *Runner) runStages(ctx context.Context, st *runState, stages []StageDef) error {
	for _, s := range stages {
		log := r.logger.With(logfields.Stage(string(s.Name)))

		if err := ctx.Err(); err != nil {
			st.report.RecordStageResult(s.Name, StageResultCanceled, r.recorder)
			return canceled(s.Name, err)
		}

		log.Debug("Stage started")
		st.warned = false
		t0 := time.Now()
		err := s.Fn(ctx, st)
		dur := time.Since(t0)

		st.report.StageDurations[s.Name] = dur
		r.recorder.ObserveStageDuration(string(s.Name), dur)

		res := StageResultSuccess
		switch {
		case err != nil && isCanceled(ctx, err):
			res = StageResultCanceled
			err = canceled(s.Name, err)
		case err != nil:
			res = StageResultFatal
		case st.warned:
			res = StageResultWarning
		}
		st.report.RecordStageResult(s.Name, res, r.recorder)
		log.Debug("Stage finished",
			logfields.Outcome(string(res)),
			logfields.DurationMS(float64(dur.Microseconds())/1000))

		if err != nil {
			return err
		}
	}
	return nil
}

func isCanceled(ctx context.Context, err error) bool {
	return ctx.Err() != nil ||
		stderrors.Is(err, context.Canceled) ||
		stderrors.Is(err, context.DeadlineExceeded)
}

func canceled(stage StageName, err error) error {
	return errors.RuntimeError("run canceled").
		WithCause(err).
		WithContext("stage", string(stage)).
		Build()
}
