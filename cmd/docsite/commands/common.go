package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsite/internal/version"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
	// Out receives command output; nil means stdout.
	Out io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docsite.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Init       InitCmd       `cmd:"" help:"Initialize a new configuration file"`
	Fragment   FragmentCmd   `cmd:"" help:"Render the toctree navigation of a document for a page"`
	SourceLink SourceLinkCmd `cmd:"" name:"source-link" help:"Resolve the source URL of a documented symbol"`
	Symbols    SymbolsCmd    `cmd:"" help:"List the modules and attributes available to source links"`
	Toctrees   ToctreesCmd   `cmd:"" help:"List the toctree declarations of a document"`
	Page       PageCmd       `cmd:"" help:"Render a page template with the page context"`
	Watch      WatchCmd      `cmd:"" help:"Watch the source directory and keep the doctree cache fresh"`

	level slog.LevelVar `kong:"-"`
}

// AfterApply runs after flag parsing; setup logging once. The configured
// logging level replaces Info once a config is loaded, unless -v was given.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	if c.Verbose {
		c.level.Set(slog.LevelDebug)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &c.level}))
	slog.SetDefault(logger)
	g.Logger = logger
	return nil
}

// NewParser builds the kong parser for cli. g and cli are bound so every
// command and hook can ask for them.
func NewParser(cli *CLI, g *Global, options ...kong.Option) (*kong.Kong, error) {
	opts := append([]kong.Option{
		kong.Name("docsite"),
		kong.Description("Render toctree navigation fragments and source links for a documentation site."),
		kong.Vars{"version": version.String()},
		kong.Bind(g, cli),
		kong.UsageOnError(),
	}, options...)
	return kong.New(cli, opts...)
}
