package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/UnknownOlympus/taskboard/internal/fetcher"
	"github.com/UnknownOlympus/taskboard/internal/lib/logger/sl"
	"github.com/UnknownOlympus/taskboard/internal/metrics"
	"github.com/UnknownOlympus/taskboard/internal/view"
)

var ErrAlreadyMounted = errors.New("task list loader is already mounted")

// Container is the page region that displays the task rows.
type Container interface {
	HasContainer() bool
	ReplaceContainer(rowsHTML string) error
}

// TaskListLoader fetches the task list once and renders it into the container.
type TaskListLoader struct {
	log       *slog.Logger
	fetcher   fetcher.TaskFetcherIface
	container Container
	metrics   *metrics.Metrics
	mounted   atomic.Bool
}

func NewTaskListLoader(
	log *slog.Logger,
	taskFetcher fetcher.TaskFetcherIface,
	container Container,
	metrics *metrics.Metrics,
) *TaskListLoader {
	return &TaskListLoader{log: log, fetcher: taskFetcher, container: container, metrics: metrics}
}

func (l *TaskListLoader) initLogger(opn string) *slog.Logger {
	return l.log.With(
		sl.Op(opn),
		slog.String("division", "board"),
	)
}

// Mount is the entry point of the board. Once the container is confirmed to exist,
// it starts LoadTasks in the background and returns a channel that is closed when
// the load has finished. Only the first call has any effect.
func (l *TaskListLoader) Mount(ctx context.Context) (<-chan struct{}, error) {
	const opn = "Loader.Mount"
	log := l.initLogger(opn)

	if !l.container.HasContainer() {
		return nil, fmt.Errorf("failed to mount board: %w", view.ErrContainerNotFound)
	}

	if !l.mounted.CompareAndSwap(false, true) {
		return nil, ErrAlreadyMounted
	}

	log.InfoContext(ctx, "Board mounted, loading tasks")

	done := make(chan struct{})
	go func() {
		defer close(done)
		l.LoadTasks(ctx)
	}()

	return done, nil
}

// LoadTasks fetches the task list and replaces the container content with one row per task.
// On any failure the container is left as it was and the error is logged once.
func (l *TaskListLoader) LoadTasks(ctx context.Context) {
	const opn = "Loader.LoadTasks"
	log := l.initLogger(opn)
	startTime := time.Now()

	rendered, err := l.load(ctx)
	l.metrics.LoadDuration.Observe(time.Since(startTime).Seconds())
	if err != nil {
		l.metrics.Loads.WithLabelValues("failure").Inc()
		log.ErrorContext(ctx, "Failed to load tasks", sl.Err(err))
		return
	}

	log.InfoContext(ctx, "Task table rendered", "rows", rendered)
	l.metrics.Loads.WithLabelValues("success").Inc()
	l.metrics.RowsRendered.Set(float64(rendered))
}

func (l *TaskListLoader) load(ctx context.Context) (int, error) {
	tasks, err := l.fetcher.FetchTasks(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch task list: %w", err)
	}

	rows, err := view.RenderRows(tasks)
	if err != nil {
		return 0, err
	}

	// the only mutation of the container
	if err = l.container.ReplaceContainer(rows); err != nil {
		return 0, fmt.Errorf("failed to update task table: %w", err)
	}

	return len(tasks), nil
}
