package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/taskboard/internal/lib/logger/sl"
)

const (
	statusOK          = "ok"
	statusUnavailable = "unavailable"
	statusUnreachable = "unreachable"
	statusDegraded    = "degraded"

	probeTimeout = 5 * time.Second
)

var errNotTaskList = errors.New("tasks endpoint did not return a JSON array")

type DBPinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker reports the state of the database and of the tasks endpoint the board reads.
type HealthChecker struct {
	db         DBPinger
	tasksURL   string
	httpClient *http.Client
	log        *slog.Logger
}

func NewHealthChecker(db DBPinger, tasksURL string, log *slog.Logger) *HealthChecker {
	return &HealthChecker{
		db:         db,
		tasksURL:   tasksURL,
		httpClient: &http.Client{Timeout: probeTimeout},
		log:        log,
	}
}

func (h *HealthChecker) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	h.log.DebugContext(ctx, "Performing health checks...")

	status := map[string]string{
		"database":       statusOK,
		"tasks_endpoint": h.probeTasks(ctx),
	}

	if err := h.db.Ping(ctx); err != nil {
		status["database"] = statusUnavailable
		h.log.WarnContext(ctx, "Health check failed: DB ping", sl.Err(err))
	}

	overallStatus := http.StatusOK
	for _, state := range status {
		if state != statusOK {
			overallStatus = http.StatusServiceUnavailable
		}
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(overallStatus)
	if err := json.NewEncoder(writer).Encode(status); err != nil {
		h.log.ErrorContext(ctx, "Failed to write health check response", sl.Err(err))
	}

	h.log.DebugContext(ctx, "Health checks completed", "status", overallStatus)
}

// probeTasks reads the tasks endpoint the way the board does: a 2xx answer carrying a JSON array.
func (h *HealthChecker) probeTasks(ctx context.Context) string {
	log := h.log.With(slog.String("url", h.tasksURL))

	probe, err := http.NewRequestWithContext(ctx, http.MethodGet, h.tasksURL, nil)
	if err != nil {
		log.WarnContext(ctx, "Health check failed: invalid tasks URL", sl.Err(err))
		return statusUnreachable
	}
	probe.Header.Set("Accept", "application/json")

	resp, err := h.httpClient.Do(probe)
	if err != nil {
		log.WarnContext(ctx, "Health check failed: tasks endpoint unreachable", sl.Err(err))
		return statusUnreachable
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.WarnContext(ctx, "Failed to close response body", sl.Err(closeErr))
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		log.WarnContext(ctx, "Health check failed: tasks endpoint returned non-2xx status",
			"status_code", resp.StatusCode)
		return statusDegraded
	}

	var elements []json.RawMessage
	if err = json.NewDecoder(resp.Body).Decode(&elements); err != nil || elements == nil {
		if err == nil {
			err = errNotTaskList
		}
		log.WarnContext(ctx, "Health check failed: unexpected tasks payload",
			sl.Err(fmt.Errorf("%w: %w", errNotTaskList, err)))
		return statusDegraded
	}

	return statusOK
}
