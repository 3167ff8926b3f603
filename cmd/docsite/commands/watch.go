package commands

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	MetricsAddr string        `name:"metrics-addr" help:"Serve Prometheus metrics on this address (e.g. :9090)"`
	Debounce    time.Duration `default:"300ms" help:"Quiet period before changed documents are reparsed"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reg := prom.NewRegistry()
	a, err := root.newApp(metrics.NewPrometheusRecorder(reg))
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	return RunWatch(ctx, a, reg, w.MetricsAddr, w.Debounce)
}

// RunWatch reparses every document once, then keeps the doctrees fresh until
// ctx is cancelled.
func RunWatch(ctx context.Context, a *app, reg *prom.Registry, metricsAddr string, debounce time.Duration) error {
	warm(a, a.env.Docnames())

	watcher, err := watch.New(a.env, func(docnames []string) { warm(a, docnames) }, watch.WithDebounce(debounce))
	if err != nil {
		return err
	}
	if err := watcher.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = watcher.Stop() }()

	var srv *http.Server
	errChan := make(chan error, 1)
	if metricsAddr != "" {
		srv = &http.Server{
			Addr:              metricsAddr,
			Handler:           metricsMux(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()
		slog.Info("Metrics endpoint listening", logfields.URL(fmt.Sprintf("http://%s/metrics", metricsAddr)))
	}

	slog.Info("Watching documents, waiting for shutdown signal...", logfields.Path(a.env.SourceDir()))

	var runErr error
	select {
	case err := <-errChan:
		runErr = errors.WrapError(err, errors.CategoryInternal, "metrics server failed").Build()
	case <-ctx.Done():
		slog.Info("Shutdown signal received, stopping watcher...")
	}

	if srv != nil {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()
		if err := srv.Shutdown(stopCtx); err != nil {
			slog.Warn("Metrics server shutdown failed", logfields.Error(err))
		}
	}
	return runErr
}

func metricsMux(reg *prom.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))
	return mux
}

// warm loads the doctree of each name so that the cache and the store hold
// the current parse. Names of removed documents are skipped.
func warm(a *app, docnames []string) {
	loaded := 0
	for _, name := range docnames {
		if !a.env.Has(name) {
			slog.Debug("Document removed", logfields.Docname(name))
			continue
		}
		if _, err := a.env.Doctree(name); err != nil {
			slog.Warn("Failed to parse document", logfields.Docname(name), logfields.Error(err))
			continue
		}
		loaded++
	}
	slog.Info("Doctrees refreshed", logfields.Count(loaded))
}
