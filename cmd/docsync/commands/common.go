package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsync/internal/config"
	"git.home.luguber.info/inful/docsync/internal/foundation/errors"
	"git.home.luguber.info/inful/docsync/internal/version"
)

// Global carries process-wide state into every command.
type Global struct {
	Ctx    context.Context
	Logger *slog.Logger
	Stdout io.Writer
	Stderr io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config      string           `short:"c" help:"Configuration file path (defaults to docsync.yaml when present)"`
	Verbose     bool             `short:"v" help:"Enable verbose logging"`
	Version     kong.VersionFlag `name:"version" help:"Show version and exit"`
	MetricsFile string           `name:"metrics-file" help:"Write Prometheus metrics to this textfile after the run" type:"path"`

	Sync SyncCmd `cmd:"" default:"1" help:"Fetch Markdown from the configured repositories and update mkdocs.yml"`
	Nav  NavCmd  `cmd:"" help:"Rebuild the navigation from the existing docs tree without network access"`
	Init InitCmd `cmd:"" help:"Write a sample configuration file"`
}

// AfterApply runs after flag parsing; setup logging once from the
// environment. Commands refine it after the configuration is loaded.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	level := config.NormalizeLogLevel(os.Getenv("LOG_LEVEL"))
	format := config.NormalizeLogFormat(os.Getenv("LOG_FORMAT"))
	c.setLogger(g, level, format)
	return nil
}

// loadConfig reads the configuration and reapplies its logging settings.
func (c *CLI) loadConfig(g *Global) (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	c.setLogger(g, cfg.Logging.Level, cfg.Logging.Format)
	return cfg, nil
}

func (c *CLI) setLogger(g *Global, level config.LogLevel, format config.LogFormat) {
	if c.Verbose {
		level = config.LogLevelDebug
	}
	g.Logger = newLogger(g.Stderr, level, format)
	slog.SetDefault(g.Logger)
}

func newLogger(w io.Writer, level config.LogLevel, format config.LogFormat) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level.SlogLevel()}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Execute parses args, runs the selected command and returns the exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	g := &Global{
		Ctx:    ctx,
		Logger: slog.Default(),
		Stdout: stdout,
		Stderr: stderr,
	}

	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("docsync"),
		kong.Description("Aggregate Markdown documentation from GitHub repositories into an MkDocs site."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Vars{"version": version.String()},
		kong.Bind(g),
	)
	if err != nil {
		return errors.NewCLIErrorAdapter(false, g.Logger).WithOutput(stderr).
			Report(errors.InternalError("failed to build command line parser").WithCause(err).Build())
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		return errors.NewCLIErrorAdapter(false, g.Logger).WithOutput(stderr).
			Report(errors.ValidationError(err.Error()).Build())
	}

	if err := kctx.Run(g, &cli); err != nil {
		return errors.NewCLIErrorAdapter(cli.Verbose, g.Logger).WithOutput(stderr).Report(err)
	}
	return 0
}
