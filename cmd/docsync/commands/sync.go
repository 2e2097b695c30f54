package commands

import (
	"strings"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docsync/internal/config"
	"git.home.luguber.info/inful/docsync/internal/foundation/errors"
	"git.home.luguber.info/inful/docsync/internal/metrics"
	"git.home.luguber.info/inful/docsync/internal/runner"
)

// SyncCmd implements the 'sync' command.
type SyncCmd struct {
	APIURL       string   `name:"api-url" help:"GitHub API base URL"`
	Output       string   `short:"o" name:"output" help:"Documentation directory"`
	MkDocsConfig string   `name:"mkdocs-config" help:"MkDocs configuration file to update"`
	Repository   []string `short:"r" name:"repo" help:"Repository to sync as owner/name; replaces the configured list"`
}

func (s *SyncCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if err := s.apply(cfg); err != nil {
		return err
	}

	rec, reg := newRecorder(root.metricsPath(cfg))
	report, runErr := runner.New(cfg,
		runner.WithLogger(g.Logger),
		runner.WithRecorder(rec),
	).Run(g.Ctx)

	if runErr == nil {
		if err := report.WriteSummary(g.Stdout); err != nil {
			return errors.FileSystemError("failed to write summary").WithCause(err).Build()
		}
	}
	if err := writeMetrics(root.metricsPath(cfg), reg); err != nil && runErr == nil {
		return err
	}
	return runErr
}

// apply overlays command line flags on the loaded configuration.
func (s *SyncCmd) apply(cfg *config.Config) error {
	if s.APIURL != "" {
		cfg.GitHub.APIURL = s.APIURL
	}
	if s.Output != "" {
		cfg.Output.Directory = s.Output
	}
	if s.MkDocsConfig != "" {
		cfg.MkDocs.ConfigFile = s.MkDocsConfig
	}
	if len(s.Repository) > 0 {
		refs := make([]config.RepositoryRef, 0, len(s.Repository))
		for _, raw := range s.Repository {
			ref, err := config.ParseRepositoryRef(raw)
			if err != nil {
				return errors.ValidationError(err.Error()).Build()
			}
			refs = append(refs, ref)
		}
		cfg.Repositories = refs
	}
	return cfg.Validate()
}

// metricsPath prefers --metrics-file over metrics.textfile.
func (c *CLI) metricsPath(cfg *config.Config) string {
	if c.MetricsFile != "" {
		return c.MetricsFile
	}
	return strings.TrimSpace(cfg.Metrics.Textfile)
}

// newRecorder returns a Prometheus recorder when a textfile is requested.
func newRecorder(path string) (metrics.Recorder, *prom.Registry) {
	if path == "" {
		return metrics.NoopRecorder{}, nil
	}
	reg := prom.NewRegistry()
	return metrics.NewPrometheusRecorder(reg), reg
}

func writeMetrics(path string, reg *prom.Registry) error {
	if path == "" || reg == nil {
		return nil
	}
	if err := metrics.WriteTextfile(reg, path); err != nil {
		return errors.FileSystemError("failed to write metrics textfile").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return nil
}
