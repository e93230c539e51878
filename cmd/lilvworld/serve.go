package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/heptiolabs/healthcheck"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/gramotor/lilv-go/pkg/lilv"
	"github.com/gramotor/lilv-go/pkg/lilv/telemetry"
)

const (
	maxGoroutines   = 256
	shutdownTimeout = 5 * time.Second
)

var errWorldClosed = errors.New("world is closed")

// newMux wires the metrics and health endpoints for a served world.
func newMux(reg *prometheus.Registry, w *lilv.World) *http.ServeMux {
	health := healthcheck.NewHandler()
	health.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(maxGoroutines))
	health.AddReadinessCheck("world", func() error {
		if !w.Alive() {
			return errWorldClosed
		}
		return nil
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.HandleFunc("/live", health.LiveEndpoint)
	mux.HandleFunc("/ready", health.ReadyEndpoint)
	return mux
}

// serve keeps one world open until ctx is cancelled. The HTTP server is shut
// down before the world is closed so no handler observes a half-released
// world.
func (a *app) serve(ctx context.Context, addr string, cfg lilv.Config) (err error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := telemetry.NewPrometheus(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	w, err := lilv.NewWorldWithConfig(ctx, cfg,
		lilv.WithNative(a.native),
		lilv.WithLogger(a.log),
		lilv.WithObserver(metrics),
	)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, w.Close()) }()

	for _, id := range lilv.Identifiers() {
		if _, nerr := w.Node(id); nerr != nil {
			a.log.Warn(ctx, "identifier unresolved", "identifier", id.String(), "error", nerr)
		}
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	srv := &http.Server{
		Handler:           newMux(reg, w),
		ReadHeaderTimeout: 5 * time.Second,
	}
	a.log.Info(ctx, "serving", "addr", ln.Addr().String(), "nodes", w.Cached())

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case <-ctx.Done():
	case serr := <-errc:
		if !errors.Is(serr, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", serr)
		}
		return nil
	}

	a.log.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
