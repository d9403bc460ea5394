package commands

import (
	"context"
	"fmt"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/build"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Override the configured output directory"`
	Clean  bool   `help:"Remove prior output contents before building"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg := loadConfig(root.Config)
	if b.Output != "" {
		cfg.OutDir = b.Output
	}
	if b.Clean {
		cfg.Output.Clean = true
	}

	siteCtx, err := cfg.Resolve()
	if err != nil {
		return err
	}

	pipeline := build.New(siteCtx, build.WithClean(cfg.Output.Clean))
	report, err := pipeline.Run(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Build completed: %d pages, %d assets (%s)\n",
		report.PagesRendered, report.AssetsCopied, report.Duration.Round(time.Millisecond))
	return nil
}
