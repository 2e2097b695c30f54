package commands

import (
	"fmt"

	"git.home.luguber.info/inful/docsync/internal/nav"
	"git.home.luguber.info/inful/docsync/internal/runner"
)

// NavCmd implements the 'nav' command.
type NavCmd struct {
	Output string `short:"o" name:"output" help:"Documentation directory"`
	DryRun bool   `name:"dry-run" help:"Print the navigation block instead of updating mkdocs.yml"`
}

func (n *NavCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if n.Output != "" {
		cfg.Output.Directory = n.Output
	}

	if n.DryRun {
		opts := nav.OptionsFromConfig(cfg)
		opts.Logger = g.Logger
		built, err := nav.NewBuilder(opts).Build()
		if err != nil {
			return err
		}
		block, err := built.Block(cfg.MkDocs.NavKey)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(g.Stdout, block)
		return nil
	}

	rec, reg := newRecorder(root.metricsPath(cfg))
	report, err := runner.New(cfg,
		runner.WithLogger(g.Logger),
		runner.WithRecorder(rec),
	).RebuildNavigation(g.Ctx)
	if err != nil {
		return err
	}
	if err := writeMetrics(root.metricsPath(cfg), reg); err != nil {
		return err
	}

	state := "unchanged"
	if report.ConfigChanged {
		state = "updated"
	}
	_, _ = fmt.Fprintf(g.Stdout, "Navigation rebuilt: %d entries, %s %s\n",
		report.NavigationEntries, cfg.MkDocs.ConfigFile, state)
	return nil
}
