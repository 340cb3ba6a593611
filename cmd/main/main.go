package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/UnknownOlympus/taskboard/internal/api"
	"github.com/UnknownOlympus/taskboard/internal/client"
	"github.com/UnknownOlympus/taskboard/internal/config"
	"github.com/UnknownOlympus/taskboard/internal/fetcher"
	"github.com/UnknownOlympus/taskboard/internal/lib/logger/sl"
	"github.com/UnknownOlympus/taskboard/internal/loader"
	"github.com/UnknownOlympus/taskboard/internal/metrics"
	"github.com/UnknownOlympus/taskboard/internal/repository"
	"github.com/UnknownOlympus/taskboard/internal/server"
	"github.com/UnknownOlympus/taskboard/internal/view"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	var wgr sync.WaitGroup

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	logger := setupLogger(cfg.Env)

	// Create a separate registry for the application metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	dtb, err := repository.NewDatabase(
		cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Dbname)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer dtb.Close()

	page, err := loadPage(cfg.Board.PagePath)
	if err != nil {
		log.Fatalf("Failed to load board page: %v", err)
	}

	taskRepo := repository.NewTaskRepository(dtb, appMetrics)
	apiServer := api.NewServer(logger, taskRepo, appMetrics)

	httpClient := client.CreateHTTPClient(logger)
	taskFetcher := fetcher.NewTaskFetcher(httpClient, logger, appMetrics, cfg.Board.TasksURL)
	taskLoader := loader.NewTaskListLoader(logger, taskFetcher, page, appMetrics)

	wgr.Add(3)

	go func() {
		defer wgr.Done()
		server.StartMonitoringServer(ctx, logger, reg, dtb, cfg.HTTP.MonitoringPort, cfg.Board.TasksURL)
	}()

	go func() {
		defer wgr.Done()
		if err := api.Start(ctx, logger, apiServer, cfg.HTTP.APIAddress); err != nil {
			logger.ErrorContext(ctx, "Task API failed", sl.Err(err))
		}
	}()

	// give the task API a moment before the board reads from it
	select {
	case <-time.After(cfg.Board.StartDelay):
	case <-ctx.Done():
	}

	if _, err = taskLoader.Mount(ctx); err != nil {
		logger.ErrorContext(ctx, "Failed to mount board", sl.Err(err))
	}

	go func() {
		defer wgr.Done()
		server.StartBoardServer(ctx, logger, page, cfg.HTTP.BoardAddress)
	}()

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	wgr.Wait()

	logger.InfoContext(ctx, "Application stopped gracefully...")
}

// loadPage reads the board page from path, or the built-in page when path is empty.
func loadPage(path string) (*view.Page, error) {
	if path == "" {
		return view.NewDefaultPage()
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read page %s: %w", path, err)
	}

	return view.NewPage(bytes.NewReader(raw))
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	dropTime := func(_ []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey {
			return slog.Attr{Key: "", Value: slog.Value{}}
		}
		return a
	}

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn, ReplaceAttr: dropTime}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError, ReplaceAttr: dropTime}),
		)

		log.Error(
			"The env parameter was not specified, or was invalid. Logging will be minimal, by default." +
				" Please specify the value of `env`: local, development, production")
	}

	return log
}
