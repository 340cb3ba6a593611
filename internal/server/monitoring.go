package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/UnknownOlympus/taskboard/internal/lib/logger/sl"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// NewMonitoringMux routes /metrics to the registry and /healthz to the health checker.
func NewMonitoringMux(reg *prometheus.Registry, health http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	mux.Handle("/healthz", health)

	return mux
}

// StartMonitoringServer serves metrics and health checks on the given port until ctx is done.
func StartMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	dbp DBPinger,
	port int,
	tasksURL string,
) {
	health := NewHealthChecker(dbp, tasksURL, log)
	serve(ctx, log, "monitoring", ":"+strconv.Itoa(port), NewMonitoringMux(reg, health))
}

// StartBoardServer serves the board page on addr until ctx is done.
func StartBoardServer(ctx context.Context, log *slog.Logger, page PageRenderer, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/", NewBoardHandler(page, log))

	serve(ctx, log, "board", addr, mux)
}

func serve(ctx context.Context, log *slog.Logger, name, addr string, handler http.Handler) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Failed to shut down server", "server", name, sl.Err(err))
		}
	}()

	log.InfoContext(ctx, "Starting server", "server", name, "address", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.ErrorContext(ctx, "Server failed", "server", name, sl.Err(err))
		return
	}
	log.InfoContext(ctx, "Server stopped", "server", name)
}
