package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/build"
	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/eventstore"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/notify"
	"git.home.luguber.info/inful/sitegen/internal/server"
	"git.home.luguber.info/inful/sitegen/internal/watch"
)

// WatchCmd implements the 'watch' command: build once, then rebuild the whole
// site on any change under the source directory until interrupted.
type WatchCmd struct {
	Interval time.Duration `help:"Also rebuild periodically at this interval (e.g. 10m)"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg := loadConfig(root.Config)
	if w.Interval > 0 {
		cfg.Watch.Interval = config.Duration(w.Interval)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rt, err := newWatchRuntime(cfg, metrics.NoopRecorder{}, nil)
	if err != nil {
		return err
	}
	defer rt.close()

	return rt.run(ctx)
}

// watchRuntime bundles the pieces shared by the watch and serve commands:
// the pipeline, the optional build-history store, and the optional NATS
// notifier.
type watchRuntime struct {
	cfg      *config.Config
	siteCtx  config.Context
	pipeline *build.Pipeline
	status   *server.Status
	store    *eventstore.Store
	notifier *notify.Notifier
}

func newWatchRuntime(cfg *config.Config, recorder metrics.Recorder, status *server.Status) (*watchRuntime, error) {
	siteCtx, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}

	rt := &watchRuntime{
		cfg:     cfg,
		siteCtx: siteCtx,
		status:  status,
		pipeline: build.New(siteCtx,
			build.WithClean(cfg.Output.Clean),
			build.WithRecorder(recorder)),
	}

	if cfg.StateDir != "" {
		if err := os.MkdirAll(cfg.StateDir, 0o755); err != nil {
			return nil, fmt.Errorf("create state directory: %w", err)
		}
		store, err := eventstore.Open(filepath.Join(cfg.StateDir, "builds.db"))
		if err != nil {
			return nil, err
		}
		rt.store = store
	}

	if cfg.Notify != nil {
		notifier, err := notify.New(cfg.Notify.NATSURL, cfg.Notify.Subject)
		if err != nil {
			// Notification is best-effort; a down broker should not
			// block local builds.
			slog.Warn("Build notifier unavailable", "error", err)
		} else {
			rt.notifier = notifier
		}
	}

	return rt, nil
}

func (rt *watchRuntime) close() {
	if rt.notifier != nil {
		rt.notifier.Close()
	}
	if rt.store != nil {
		if err := rt.store.Close(); err != nil {
			slog.Warn("Failed to close build-history store", "error", err)
		}
	}
}

// run performs the initial build and then watches until ctx is canceled.
func (rt *watchRuntime) run(ctx context.Context) error {
	if err := rt.rebuild(ctx); err != nil {
		// The watch loop survives a bad edit: the failure is visible in
		// logs and health status while we keep watching for the fix.
		slog.Error("Initial build failed", "error", err)
	}

	watcher := watch.New(rt.siteCtx.SrcDir, rt.cfg.Watch.QuietWindow.Std(), rt.rebuild)

	if rt.cfg.Watch.Interval > 0 {
		scheduler, err := watch.NewScheduler()
		if err != nil {
			return err
		}
		if err := scheduler.SchedulePeriodicRebuild(rt.cfg.Watch.Interval.Std(), watcher.Trigger); err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Stop(); err != nil {
				slog.Warn("Failed to stop scheduler", "error", err)
			}
		}()
		slog.Info("Periodic rebuild scheduled", "interval", rt.cfg.Watch.Interval)
	}

	return watcher.Run(ctx)
}

// rebuild runs one full pipeline pass and fans the outcome out to the
// status tracker, the build-history store, and the notifier.
func (rt *watchRuntime) rebuild(ctx context.Context) error {
	report, err := rt.pipeline.Run(ctx)
	if err != nil {
		if rt.status != nil {
			rt.status.SetError(err)
		}
		rt.recordEvent(eventstore.TypeBuildFailed, report)
		return err
	}

	if rt.status != nil {
		rt.status.SetSuccess()
	}
	rt.recordEvent(eventstore.TypeBuildSucceeded, report)

	if rt.notifier != nil {
		if err := rt.notifier.PublishReport(report); err != nil {
			slog.Warn("Failed to publish build report", "error", err)
		}
	}
	return nil
}

// recordEvent appends a build outcome to the history store. Recording uses
// its own short-lived context so a canceled rebuild still gets logged.
func (rt *watchRuntime) recordEvent(eventType string, report *build.Report) {
	if rt.store == nil || report == nil {
		return
	}

	payload, err := json.Marshal(report)
	if err != nil {
		slog.Warn("Failed to marshal build report", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rt.store.Append(ctx, report.BuildID, eventType, payload); err != nil {
		slog.Warn("Failed to record build event", "type", eventType, "error", err)
	}
}
