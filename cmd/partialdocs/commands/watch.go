package commands

import (
	"context"
	stderrors "errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/partialdocs/internal/config"
	"git.home.luguber.info/inful/partialdocs/internal/errors"
	"git.home.luguber.info/inful/partialdocs/internal/logfields"
	"git.home.luguber.info/inful/partialdocs/internal/metrics"
	"git.home.luguber.info/inful/partialdocs/internal/site"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Output       string        `short:"o" help:"Output directory for the merged docs tree (overrides site.output)"`
	PollInterval time.Duration `name:"poll-interval" help:"Also rebuild on this interval (overrides watch.poll_interval)"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	if w.Output != "" {
		cfg.Site.Output = w.Output
	}
	if w.PollInterval > 0 {
		cfg.Watch.PollInterval = w.PollInterval.String()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := []site.Option{site.WithLogger(g.Logger)}
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		opts = append(opts, site.WithRecorder(metrics.NewPrometheusRecorder(reg)))
		stop, err := serveMetrics(g, cfg.Metrics, reg)
		if err != nil {
			return err
		}
		defer stop()
	}

	s, err := site.New(cfg, opts...)
	if err != nil {
		return err
	}
	g.Logger.Info("Starting watch mode", logfields.Path(cfg.Site.Output))
	return s.Watch(ctx)
}

// serveMetrics exposes reg on cfg.Listen until the returned stop is called.
func serveMetrics(g *Global, cfg config.MetricsConfig, reg *prometheus.Registry) (func(), error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Surface immediate bind failures.
	select {
	case err := <-errCh:
		if err != nil {
			return nil, errors.IO("serve metrics", cfg.Listen, err)
		}
	case <-time.After(100 * time.Millisecond):
	}
	g.Logger.Info("Serving metrics", "listen", cfg.Listen)

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			g.Logger.Warn("Metrics server shutdown failed", logfields.Error(err))
		}
	}, nil
}
