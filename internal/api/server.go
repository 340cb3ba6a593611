package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/UnknownOlympus/taskboard/internal/metrics"
	"github.com/UnknownOlympus/taskboard/internal/repository"
)

// paths that are served but not worth a log line
var ignoredPaths = map[string]struct{}{
	"/favicon.ico": {},
}

// NewServer builds the echo instance serving the task API.
func NewServer(log *slog.Logger, repo repository.TaskRepoIface, appMetrics *metrics.Metrics) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	e.Use(requestLogger(log))
	e.Use(requestCounter(appMetrics))

	Register(e, repo, log)

	return e
}

// Start serves the API on addr until ctx is cancelled.
func Start(ctx context.Context, log *slog.Logger, e *echo.Echo, addr string) error {
	shutdownTimeout := 5 * time.Second

	errCh := make(chan error, 1)
	go func() {
		log.InfoContext(ctx, "Task API listening", "address", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("task API server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down task API: %w", err)
	}
	log.InfoContext(ctx, "Task API stopped")

	return nil
}

func requestLogger(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if _, skip := ignoredPaths[req.URL.Path]; skip {
				return next(c)
			}

			reqLog := log.With(slog.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)))
			reqLog.InfoContext(req.Context(), "Request", "method", req.Method, "url", req.URL.String())

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			reqLog.InfoContext(req.Context(), "Response", "status", c.Response().Status)

			return nil
		}
	}
}

func requestCounter(appMetrics *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			appMetrics.APIRequests.
				WithLabelValues(c.Request().Method, strconv.Itoa(c.Response().Status)).
				Inc()

			return nil
		}
	}
}
