package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/server"
)

// ServeCmd implements the 'serve' command: a local preview that builds,
// watches, and serves the output tree with health and metrics endpoints.
type ServeCmd struct {
	Addr     string        `default:":8080" help:"Listen address for the preview server"`
	Interval time.Duration `help:"Also rebuild periodically at this interval (e.g. 10m)"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg := loadConfig(root.Config)
	if s.Interval > 0 {
		cfg.Watch.Interval = config.Duration(s.Interval)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	registry := prom.NewRegistry()
	status := &server.Status{}

	rt, err := newWatchRuntime(cfg, metrics.NewPrometheusRecorder(registry), status)
	if err != nil {
		return err
	}
	defer rt.close()

	opts := []server.Option{server.WithMetrics(registry)}
	if rt.store != nil {
		opts = append(opts, server.WithEventStore(rt.store))
	}

	srv := server.New(s.Addr, rt.siteCtx.OutDir, status, opts...)
	if err := srv.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer stopCancel()
		if err := srv.Stop(stopCtx); err != nil {
			slog.Warn("Failed to stop preview server", "error", err)
		}
	}()

	fmt.Printf("Serving %s on %s\n", rt.siteCtx.OutDir, s.Addr)
	return rt.run(ctx)
}
