// Package build orchestrates the clean, copy-assets, and render-pages stages
// of a site build. Stages run strictly in order with no parallelism; pages
// are rendered one at a time.
package build

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/layout"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/render"
)

// Stage names used in logs and metrics.
const (
	StageClean  = "clean"
	StageAssets = "assets"
	StagePages  = "pages"
)

// Report summarizes one pipeline run.
type Report struct {
	BuildID       string        `json:"build_id"`
	StartedAt     time.Time     `json:"started_at"`
	Duration      time.Duration `json:"duration"`
	PagesRendered int           `json:"pages_rendered"`
	AssetsCopied  int           `json:"assets_copied"`
	Error         string        `json:"error,omitempty"`
}

// Pipeline runs full site builds for one resolved Context.
type Pipeline struct {
	ctx        config.Context
	clean      bool
	renderer   *render.Renderer
	compositor *layout.Compositor
	recorder   metrics.Recorder
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Pipeline) { p.recorder = r }
}

// WithClean enables destructive cleaning of the output directory before the
// copy stage. The default is the non-destructive ensure-exists behavior.
func WithClean(clean bool) Option {
	return func(p *Pipeline) { p.clean = clean }
}

// New creates a Pipeline for the given resolved context.
func New(ctx config.Context, opts ...Option) *Pipeline {
	p := &Pipeline{
		ctx:        ctx,
		renderer:   render.New(),
		compositor: layout.NewCompositor(ctx),
		recorder:   metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes clean, copy-assets, and render-pages in order. The first
// failing page aborts the build; output written by earlier pages stays in
// place. A partial Report is returned alongside any error.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		BuildID:   uuid.NewString(),
		StartedAt: time.Now(),
	}
	log := slog.With("build_id", report.BuildID)
	log.Info("Starting site build", "src", p.ctx.SrcDir, "out", p.ctx.OutDir)

	err := p.run(ctx, report, log)

	report.Duration = time.Since(report.StartedAt)
	p.recorder.ObserveBuildDuration(report.Duration)
	if err != nil {
		report.Error = err.Error()
		p.recorder.IncBuildOutcome(metrics.OutcomeFailed)
		log.Error("Build failed", "error", err, "duration", report.Duration)
		return report, err
	}

	p.recorder.IncBuildOutcome(metrics.OutcomeSuccess)
	log.Info("Build completed",
		"pages", report.PagesRendered,
		"assets", report.AssetsCopied,
		"duration", report.Duration)
	return report, nil
}

func (p *Pipeline) run(ctx context.Context, report *Report, log *slog.Logger) error {
	if err := p.stage(StageClean, log, func() error {
		return p.cleanOutput()
	}); err != nil {
		return err
	}

	if err := p.stage(StageAssets, log, func() error {
		n, err := p.copyAssets()
		report.AssetsCopied = n
		p.recorder.AddAssetsCopied(n)
		return err
	}); err != nil {
		return err
	}

	return p.stage(StagePages, log, func() error {
		n, err := p.renderPages(ctx, log)
		report.PagesRendered = n
		p.recorder.AddPagesRendered(n)
		return err
	})
}

func (p *Pipeline) stage(name string, log *slog.Logger, fn func() error) error {
	start := time.Now()
	err := fn()
	p.recorder.ObserveStageDuration(name, time.Since(start))
	if err != nil {
		return fmt.Errorf("%s stage: %w", name, err)
	}
	log.Debug("Stage completed", "stage", name, "duration", time.Since(start))
	return nil
}

// cleanOutput ensures the output directory exists. With the clean option it
// first removes prior contents; without it pre-existing files survive the
// build.
func (p *Pipeline) cleanOutput() error {
	if p.clean {
		if err := os.RemoveAll(p.ctx.OutDir); err != nil {
			return fmt.Errorf("remove output directory: %w", err)
		}
	}
	if err := os.MkdirAll(p.ctx.OutDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}

// copyAssets mirrors the asset tree into the output directory root. A
// missing asset directory is not an error; the site may have no assets.
func (p *Pipeline) copyAssets() (int, error) {
	if _, err := os.Stat(p.ctx.AssetsDir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("No asset directory, skipping copy", "dir", p.ctx.AssetsDir)
			return 0, nil
		}
		return 0, fmt.Errorf("stat asset directory: %w", err)
	}
	return CopyDir(p.ctx.AssetsDir, p.ctx.OutDir)
}

func (p *Pipeline) renderPages(ctx context.Context, log *slog.Logger) (int, error) {
	files, err := CollectFiles(p.ctx.PagesDir)
	if err != nil {
		return 0, fmt.Errorf("collect pages: %w", err)
	}

	rendered := 0
	for _, file := range files {
		// A superseding change can cancel an in-flight watch rebuild
		// between pages.
		if err := ctx.Err(); err != nil {
			return rendered, err
		}

		page, err := p.renderer.RenderFile(file)
		if err != nil {
			return rendered, err
		}

		outPath, err := p.compositor.WritePage(file, page)
		if err != nil {
			return rendered, fmt.Errorf("page %s: %w", file, err)
		}

		rendered++
		log.Debug("Page rendered", "page", file, "output", outPath, "url", page["url"])
	}
	return rendered, nil
}
