package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitegen/internal/config"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition and global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build BuildCmd `cmd:"" help:"Build the site once"`
	Watch WatchCmd `cmd:"" help:"Build the site, then rebuild on source changes"`
	Serve ServeCmd `cmd:"" help:"Build, watch, and serve the site with health and metrics endpoints"`
	Init  InitCmd  `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig loads the configuration for a command, logging how it was
// resolved. A malformed file falls back to defaults with a warning rather
// than failing the run.
func loadConfig(path string) *config.Config {
	cfg, info := config.Load(path)
	switch {
	case info.Err != nil:
		slog.Warn("Using default configuration", "path", info.Path, "error", info.Err)
	case info.Source == config.SourceDefault:
		slog.Info("No configuration file found, using defaults", "path", info.Path)
	default:
		slog.Debug("Configuration loaded", "path", info.Path)
	}
	return cfg
}
