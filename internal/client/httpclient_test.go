package client_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/UnknownOlympus/taskboard/internal/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateHTTPClient(t *testing.T) {
	var logBuf bytes.Buffer // buffer for log capturing
	// Level debug needed, for CheckRedirect message capturing
	testLogger := slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	t.Run("client properties", func(t *testing.T) {
		httpClient := client.CreateHTTPClient(testLogger)

		assert.Nil(t, httpClient.Jar, "the board sends no cookies")
		assert.Zero(t, httpClient.Timeout, "requests are bounded by context only")
		assert.NotNil(t, httpClient.CheckRedirect)
	})

	t.Run("CheckRedirect behavior - redirection and logging", func(t *testing.T) {
		logBuf.Reset()

		finalPath := "/tasks/"
		redirectPath := "/tasks"

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case redirectPath:
				http.Redirect(w, r, finalPath, http.StatusTemporaryRedirect)
			case finalPath:
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte("[]"))
			default:
				http.NotFound(w, r)
			}
		}))
		defer server.Close()

		httpClient := client.CreateHTTPClient(testLogger)

		resp, err := httpClient.Get(server.URL + redirectPath)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, finalPath, resp.Request.URL.Path)

		// slog text format: level=DEBUG msg="Redirected to URL" URL=http://127.0.0.1:xxxx/tasks/
		loggedOutput := logBuf.String()
		assert.True(t, strings.Contains(loggedOutput, "Redirected to URL"), loggedOutput)
		assert.Contains(t, loggedOutput, "URL="+server.URL+finalPath)
	})

	t.Run("redirect loop is cut", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, r.URL.Path, http.StatusFound)
		}))
		defer server.Close()

		httpClient := client.CreateHTTPClient(testLogger)

		resp, err := httpClient.Get(server.URL + "/loop")
		if resp != nil {
			resp.Body.Close()
		}
		require.Error(t, err)
		require.ErrorIs(t, err, client.ErrTooManyRedirects)
	})
}
