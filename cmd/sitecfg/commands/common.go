// Package commands implements the sitecfg subcommands.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitecfg/internal/build"
	"git.home.luguber.info/inful/sitecfg/internal/collection"
	"git.home.luguber.info/inful/sitecfg/internal/config"
	"git.home.luguber.info/inful/sitecfg/internal/site"
)

// Global is shared state bound into every command's Run.
type Global struct {
	Out    io.Writer
	Logger *slog.Logger
}

// CLI definition and global flags.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path (.yaml or .toml)" default:"sitecfg.yaml" type:"path"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	LogFormat string           `name:"log-format" help:"Log output format (text or json); defaults to the configured format"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Validate    ValidateCmd    `cmd:"" help:"Validate the site definition and its collections"`
	Render      RenderCmd      `cmd:"" help:"Write astro.config.mjs, content.config.ts and data snapshots"`
	Sidebar     SidebarCmd     `cmd:"" help:"Print the sidebar tree"`
	Collections CollectionsCmd `cmd:"" help:"List the declared content collections"`
	Init        InitCmd        `cmd:"" help:"Initialize a new configuration file"`
	Watch       WatchCmd       `cmd:"" help:"Re-render whenever the configuration or content changes"`
}

// AfterApply runs after flag parsing and sets up logging once.
func (c *CLI) AfterApply(g *Global) error {
	switch c.LogFormat {
	case "", string(config.LogFormatText), string(config.LogFormatJSON):
	default:
		return fmt.Errorf("--log-format must be text or json, got %q", c.LogFormat)
	}
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	c.setLogger(g, level, config.LogFormat(c.LogFormat))
	return nil
}

func (c *CLI) setLogger(g *Global, level slog.Level, format config.LogFormat) {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	if g != nil {
		g.Logger = logger
	}
}

// loadConfig reads the configuration and applies its logging section unless
// the command line already decided.
func (c *CLI) loadConfig(g *Global) (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	level := cfg.Logging.Level.SlogLevel()
	if c.Verbose {
		level = slog.LevelDebug
	}
	format := cfg.Logging.Format
	if c.LogFormat != "" {
		format = config.LogFormat(c.LogFormat)
	}
	c.setLogger(g, level, format)
	return cfg, nil
}

// assemble builds the registry and runs one assembly. adjust may override
// options derived from the configuration.
func assemble(ctx context.Context, g *Global, cfg *config.Config, adjust func(*build.Options)) (*build.Result, error) {
	registry, err := cfg.Registry(g.Logger)
	if err != nil {
		return nil, err
	}
	opts := cfg.AssembleOptions()
	if adjust != nil {
		adjust(&opts)
	}
	return build.NewAssembler(&cfg.Site, registry, opts).
		WithLogger(g.Logger).
		Assemble(ctx)
}

// registryFor is used by commands that inspect bindings without loading.
func registryFor(g *Global, cfg *config.Config) (*collection.Registry, error) {
	return cfg.Registry(g.Logger)
}

func printIssues(w io.Writer, issues site.Issues) error {
	if len(issues) == 0 {
		return nil
	}
	_, err := io.WriteString(w, strings.TrimRight(issues.Summary(), "\n")+"\n")
	return err
}
