package client

import (
	"errors"
	"log/slog"
	"net/http"
)

const maxRedirects = 10

var ErrTooManyRedirects = errors.New("stopped after too many redirects")

// CreateHTTPClient initializes the HTTP client shared by the board components.
// No client-level timeout is set: callers bound requests through their context.
func CreateHTTPClient(log *slog.Logger) *http.Client {
	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return ErrTooManyRedirects
			}
			log.Debug("Redirected to URL", "URL", req.URL)

			return nil
		},
	}
}
