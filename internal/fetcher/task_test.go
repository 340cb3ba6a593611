package fetcher_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/UnknownOlympus/taskboard/internal/fetcher"
	"github.com/UnknownOlympus/taskboard/internal/metrics"
	"github.com/UnknownOlympus/taskboard/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// JSON mock for the tasks endpoint.
const tasksJSON = `[
	{"id": 1, "title": "Buy milk", "description": null, "completed": false},
	{"id": 2, "title": "Pay bills", "description": "due Friday", "completed": true},
	{"id": 3, "title": "Call mom"}
]`

const mixedTasksJSON = `[
	{"id": 1, "title": "Valid"},
	{"title": "No id"},
	{"id": 2.5, "title": "Fractional id"},
	{"id": 3, "title": ""},
	{"id": 4, "title": "Bad flag", "completed": "yes"},
	null,
	42,
	{"id": "5", "title": "String id"}
]`

func newFetcher(t *testing.T, handler http.HandlerFunc) (*fetcher.TaskFetcher, *metrics.Metrics) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	appMetrics := metrics.NewMetrics(prometheus.NewRegistry())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return fetcher.NewTaskFetcher(server.Client(), logger, appMetrics, server.URL+"/tasks/"), appMetrics
}

func TestFetchTasks(t *testing.T) {
	t.Parallel()

	taskFetcher, appMetrics := newFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		// Checking whether the request is a plain GET of the list
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/tasks/", r.URL.Path)
		assert.Empty(t, r.URL.RawQuery)
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, models.UserAgent, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(tasksJSON))
	})

	tasks, err := taskFetcher.FetchTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	assert.Equal(t, 1, tasks[0].ID)
	assert.Equal(t, "Buy milk", tasks[0].Title)
	assert.Nil(t, tasks[0].Description)
	assert.False(t, tasks[0].Completed)

	assert.Equal(t, 2, tasks[1].ID)
	require.NotNil(t, tasks[1].Description)
	assert.Equal(t, "due Friday", *tasks[1].Description)
	assert.True(t, tasks[1].Completed)

	// absent fields fall back to defaults
	assert.Equal(t, 3, tasks[2].ID)
	assert.Nil(t, tasks[2].Description)
	assert.False(t, tasks[2].Completed)

	assert.InDelta(t, 3, testutil.ToFloat64(appMetrics.TasksFetched.WithLabelValues("accepted")), 0)
}

func TestFetchTasks_EmptyList(t *testing.T) {
	t.Parallel()

	taskFetcher, _ := newFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	tasks, err := taskFetcher.FetchTasks(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestFetchTasks_SkipsMalformedRecords(t *testing.T) {
	t.Parallel()

	var logBuf bytes.Buffer
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(mixedTasksJSON))
	}))
	defer server.Close()

	appMetrics := metrics.NewMetrics(prometheus.NewRegistry())
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))
	taskFetcher := fetcher.NewTaskFetcher(server.Client(), logger, appMetrics, server.URL)

	tasks, err := taskFetcher.FetchTasks(context.Background())
	require.NoError(t, err)

	// order of the surviving records is preserved
	require.Len(t, tasks, 2)
	assert.Equal(t, 1, tasks[0].ID)
	assert.Equal(t, "Valid", tasks[0].Title)
	assert.Equal(t, 5, tasks[1].ID)
	assert.Equal(t, "String id", tasks[1].Title)

	assert.InDelta(t, 6, testutil.ToFloat64(appMetrics.TasksFetched.WithLabelValues("rejected")), 0)
	assert.Contains(t, logBuf.String(), "Skipping task record")
}

func TestFetchTasks_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		status  int
		body    string
		errPart string
	}{
		{name: "internal server error", status: http.StatusInternalServerError, body: "", errPart: "status code: 500"},
		{name: "not found", status: http.StatusNotFound, body: `{"detail":"Not Found"}`, errPart: "status code: 404"},
		{name: "object instead of array", status: http.StatusOK, body: `{"id": 1}`, errPart: "not a JSON array"},
		{name: "broken json", status: http.StatusOK, body: `[{"id": 1,`, errPart: "not a JSON array"},
		{name: "html body", status: http.StatusOK, body: `<html></html>`, errPart: "not a JSON array"},
		{name: "null body", status: http.StatusOK, body: `null`, errPart: "response is null"},
		{
			name:    "markup after array",
			status:  http.StatusOK,
			body:    `[{"id":1,"title":"a"}] <html>oops`,
			errPart: "data after the JSON array",
		},
		{name: "second array", status: http.StatusOK, body: `[] []`, errPart: "data after the JSON array"},
		{name: "stray bracket", status: http.StatusOK, body: `[]]`, errPart: "data after the JSON array"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			taskFetcher, _ := newFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			tasks, err := taskFetcher.FetchTasks(context.Background())
			require.Error(t, err)
			require.ErrorIs(t, err, fetcher.ErrFetchTasks)
			assert.ErrorContains(t, err, tc.errPart)
			assert.Nil(t, tasks)
		})
	}
}

func TestFetchTasks_TrailingWhitespace(t *testing.T) {
	t.Parallel()

	taskFetcher, _ := newFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("[{\"id\": 7, \"title\": \"Water plants\"}]\n\t \n"))
	})

	tasks, err := taskFetcher.FetchTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, 7, tasks[0].ID)
}

func TestFetchTasks_Unreachable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	unreachableURL := server.URL
	server.Close()

	appMetrics := metrics.NewMetrics(prometheus.NewRegistry())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	taskFetcher := fetcher.NewTaskFetcher(http.DefaultClient, logger, appMetrics, unreachableURL)

	_, err := taskFetcher.FetchTasks(context.Background())
	require.ErrorIs(t, err, fetcher.ErrFetchTasks)
	assert.ErrorContains(t, err, "failed to request")
}

func TestFetchTasks_InvalidURL(t *testing.T) {
	t.Parallel()

	appMetrics := metrics.NewMetrics(prometheus.NewRegistry())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	taskFetcher := fetcher.NewTaskFetcher(http.DefaultClient, logger, appMetrics, "://bad url")

	_, err := taskFetcher.FetchTasks(context.Background())
	require.ErrorIs(t, err, fetcher.ErrFetchTasks)
	assert.ErrorContains(t, err, "failed to parse tasks URL")
}

func TestFetchTasks_CancelledContext(t *testing.T) {
	t.Parallel()

	taskFetcher, _ := newFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := taskFetcher.FetchTasks(ctx)
	require.ErrorIs(t, err, fetcher.ErrFetchTasks)
	require.ErrorIs(t, err, context.Canceled)
}
