package server_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/UnknownOlympus/taskboard/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(_ context.Context) error {
	return s.err
}

func TestHealthChecker(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	testCases := []struct {
		name       string
		pingErr    error
		handler    http.HandlerFunc
		wantCode   int
		wantStatus string
	}{
		{
			name: "all systems ok",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`[{"id":1,"title":"Buy milk"}]`))
			},
			wantCode:   http.StatusOK,
			wantStatus: `{"database":"ok","tasks_endpoint":"ok"}`,
		},
		{
			name:    "database unavailable",
			pingErr: errors.New("connection refused"),
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`[]`))
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: `{"database":"unavailable","tasks_endpoint":"ok"}`,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: `{"database":"ok","tasks_endpoint":"degraded"}`,
		},
		{
			name: "tasks route missing",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, `{"detail":"Not Found"}`, http.StatusNotFound)
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: `{"database":"ok","tasks_endpoint":"degraded"}`,
		},
		{
			name: "unfollowed redirect",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotModified)
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: `{"database":"ok","tasks_endpoint":"degraded"}`,
		},
		{
			name: "redirect to a missing page",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/gone" {
					http.NotFound(w, r)
					return
				}
				http.Redirect(w, r, "/gone", http.StatusFound)
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: `{"database":"ok","tasks_endpoint":"degraded"}`,
		},
		{
			name: "html instead of a task list",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`<html><body>maintenance</body></html>`))
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: `{"database":"ok","tasks_endpoint":"degraded"}`,
		},
		{
			name: "null task list",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`null`))
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: `{"database":"ok","tasks_endpoint":"degraded"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tasksServer := httptest.NewServer(tc.handler)
			defer tasksServer.Close()

			healthChecker := server.NewHealthChecker(stubPinger{err: tc.pingErr}, tasksServer.URL+"/tasks/", logger)

			rec := httptest.NewRecorder()
			healthChecker.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			require.Equal(t, tc.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tc.wantStatus, rec.Body.String())
		})
	}
}

func TestHealthChecker_Unreachable(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	for _, tasksURL := range []string{"invalid_url", "://bad url", closedURL} {
		healthChecker := server.NewHealthChecker(stubPinger{}, tasksURL, logger)

		rec := httptest.NewRecorder()
		healthChecker.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code, tasksURL)
		assert.JSONEq(t, `{"database":"ok","tasks_endpoint":"unreachable"}`, rec.Body.String(), tasksURL)
	}
}
