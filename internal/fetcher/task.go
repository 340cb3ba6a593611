package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/UnknownOlympus/taskboard/internal/lib/logger/sl"
	"github.com/UnknownOlympus/taskboard/internal/metrics"
	"github.com/UnknownOlympus/taskboard/internal/models"
)

// ErrFetchTasks is the single failure kind of a task list fetch: transport errors,
// non-2xx statuses and malformed bodies all wrap it.
var ErrFetchTasks = errors.New("failed to fetch tasks")

var errMalformedTask = errors.New("malformed task record")

type TaskFetcherIface interface {
	FetchTasks(ctx context.Context) ([]models.Task, error)
}

type TaskFetcher struct {
	client   *http.Client
	log      *slog.Logger
	metrics  *metrics.Metrics
	tasksURL string
}

func NewTaskFetcher(client *http.Client, log *slog.Logger, metrics *metrics.Metrics, tasksURL string) *TaskFetcher {
	return &TaskFetcher{client: client, log: log, metrics: metrics, tasksURL: tasksURL}
}

// rawTask mirrors one element of the endpoint's JSON array before validation.
type rawTask struct {
	ID          *json.Number `json:"id"`
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Completed   *bool        `json:"completed"`
}

// FetchTasks issues a single GET to the tasks endpoint and decodes the returned array.
// Elements that cannot form a valid task are skipped and logged; the order of the rest is kept.
func (tf *TaskFetcher) FetchTasks(ctx context.Context) ([]models.Task, error) {
	log := tf.log.With(sl.Op("Fetcher.FetchTasks"), slog.String("url", tf.tasksURL))

	resp, err := tf.getJSONResponse(ctx)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var elements []json.RawMessage
	dec := json.NewDecoder(resp.Body)
	if err = dec.Decode(&elements); err != nil {
		return nil, fmt.Errorf("%w: response is not a JSON array: %w", ErrFetchTasks, err)
	}
	if elements == nil {
		return nil, fmt.Errorf("%w: response is null", ErrFetchTasks)
	}
	// only whitespace may follow the array
	if _, err = dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: response has data after the JSON array", ErrFetchTasks)
	}

	tasks := make([]models.Task, 0, len(elements))
	for index, element := range elements {
		task, decodeErr := decodeTask(element)
		if decodeErr != nil {
			log.WarnContext(ctx, "Skipping task record", "index", index, sl.Err(decodeErr))
			tf.metrics.TasksFetched.WithLabelValues("rejected").Inc()
			continue
		}
		tasks = append(tasks, task)
	}
	tf.metrics.TasksFetched.WithLabelValues("accepted").Add(float64(len(tasks)))

	log.DebugContext(ctx, "Fetched tasks", "count", len(tasks), "received", len(elements))

	return tasks, nil
}

func (tf *TaskFetcher) getJSONResponse(ctx context.Context) (*http.Response, error) {
	reqURL, err := url.Parse(tf.tasksURL)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse tasks URL %s: %w", ErrFetchTasks, tf.tasksURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create new request %s: %w", ErrFetchTasks, reqURL.String(), err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", models.UserAgent)

	resp, err := tf.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to request %s: %w", ErrFetchTasks, reqURL.String(), err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		resp.Body.Close()
		return nil, fmt.Errorf("%w, received status code: %d", ErrFetchTasks, resp.StatusCode)
	}

	return resp, nil
}

func decodeTask(element json.RawMessage) (models.Task, error) {
	var raw rawTask
	if err := json.Unmarshal(element, &raw); err != nil {
		return models.Task{}, fmt.Errorf("%w: %w", errMalformedTask, err)
	}

	if raw.ID == nil {
		return models.Task{}, fmt.Errorf("%w: id is missing", errMalformedTask)
	}
	id, err := raw.ID.Int64()
	if err != nil {
		return models.Task{}, fmt.Errorf("%w: id %q is not an integer", errMalformedTask, raw.ID.String())
	}

	if raw.Title == nil || *raw.Title == "" {
		return models.Task{}, fmt.Errorf("%w: title is missing for task %d", errMalformedTask, id)
	}

	task := models.Task{
		ID:          int(id),
		Title:       *raw.Title,
		Description: raw.Description,
	}
	if raw.Completed != nil {
		task.Completed = *raw.Completed
	}

	return task, nil
}
