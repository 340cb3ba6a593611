package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/UnknownOlympus/taskboard/internal/lib/logger/sl"
	"github.com/UnknownOlympus/taskboard/internal/models"
	"github.com/UnknownOlympus/taskboard/internal/repository"
)

type detailResponse struct {
	Detail string `json:"detail"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register wires up all task routes on the provided Echo instance.
func Register(e *echo.Echo, repo repository.TaskRepoIface, log *slog.Logger) {
	h := &handlers{repo: repo, log: log.With(slog.String("division", "api"))}

	e.GET("/", h.root)
	for _, path := range []string{"/tasks", "/tasks/"} {
		e.GET(path, h.listTasks)
		e.POST(path, h.createTask)
	}
	e.GET("/tasks/:id", h.getTask)
	e.PUT("/tasks/:id", h.updateTask)
	e.DELETE("/tasks/:id", h.deleteTask)
}

type handlers struct {
	repo repository.TaskRepoIface
	log  *slog.Logger
}

func detail(c echo.Context, status int, msg string) error {
	return c.JSON(status, detailResponse{Detail: msg})
}

func taskID(c echo.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, false
	}

	return id, true
}

func (h *handlers) root(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "Please visit /tasks/ for the task list"})
}

func (h *handlers) listTasks(c echo.Context) error {
	ctx := c.Request().Context()

	tasks, err := h.repo.ListTasks(ctx)
	if err != nil {
		h.log.ErrorContext(ctx, "Failed to list tasks", sl.Err(err))
		return detail(c, http.StatusInternalServerError, "Error listing tasks.")
	}

	return c.JSON(http.StatusOK, tasks)
}

func (h *handlers) getTask(c echo.Context) error {
	ctx := c.Request().Context()

	id, ok := taskID(c)
	if !ok {
		return detail(c, http.StatusUnprocessableEntity, "Task id must be an integer.")
	}

	task, err := h.repo.GetTaskByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			h.log.WarnContext(ctx, "Task not found", "id", id)
			return detail(c, http.StatusNotFound, "Task not found")
		}
		h.log.ErrorContext(ctx, "Failed to get task", "id", id, sl.Err(err))
		return detail(c, http.StatusInternalServerError, "Error fetching task.")
	}

	h.log.InfoContext(ctx, "Task fetched", "id", id)

	return c.JSON(http.StatusOK, task)
}

func (h *handlers) createTask(c echo.Context) error {
	ctx := c.Request().Context()

	var payload models.TaskCreate
	if err := (&echo.DefaultBinder{}).BindBody(c, &payload); err != nil {
		return detail(c, http.StatusUnprocessableEntity, "Request body must be a JSON task.")
	}
	if err := payload.Validate(); err != nil {
		return detail(c, http.StatusUnprocessableEntity, err.Error())
	}

	created, err := h.repo.CreateTask(ctx, payload.ToTask())
	if err != nil {
		h.log.ErrorContext(ctx, "Error creating a task", sl.Err(err))
		return detail(c, http.StatusInternalServerError, "Error creating task.")
	}

	h.log.InfoContext(ctx, "New task created",
		"id", created.ID, "title", created.Title, "completed", created.Completed)

	return c.JSON(http.StatusOK, created)
}

func (h *handlers) updateTask(c echo.Context) error {
	ctx := c.Request().Context()

	id, ok := taskID(c)
	if !ok {
		return detail(c, http.StatusUnprocessableEntity, "Task id must be an integer.")
	}

	var payload models.TaskUpdate
	if err := (&echo.DefaultBinder{}).BindBody(c, &payload); err != nil {
		return detail(c, http.StatusUnprocessableEntity, "Request body must be a JSON task.")
	}
	if err := payload.Validate(); err != nil {
		return detail(c, http.StatusUnprocessableEntity, err.Error())
	}

	exists, err := h.repo.TaskExists(ctx, id)
	if err != nil {
		h.log.ErrorContext(ctx, "Error checking if task exists", "id", id, sl.Err(err))
		return detail(c, http.StatusInternalServerError, "Error checking task existence.")
	}
	if !exists {
		h.log.WarnContext(ctx, "Task not found", "id", id)
		return detail(c, http.StatusNotFound, "Task not found")
	}

	if payload.IsEmpty() {
		h.log.WarnContext(ctx, "No valid fields provided for update", "id", id)
		return detail(c, http.StatusBadRequest, "No valid fields provided for update")
	}

	updated, err := h.repo.UpdateTask(ctx, id, payload)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return detail(c, http.StatusNotFound, "Task not found")
		}
		h.log.ErrorContext(ctx, "Error updating task", "id", id, sl.Err(err))
		return detail(c, http.StatusInternalServerError, "Error updating task.")
	}

	h.log.InfoContext(ctx, "Task updated", "id", id)

	return c.JSON(http.StatusOK, updated)
}

func (h *handlers) deleteTask(c echo.Context) error {
	ctx := c.Request().Context()

	id, ok := taskID(c)
	if !ok {
		return detail(c, http.StatusUnprocessableEntity, "Task id must be an integer.")
	}

	deleted, err := h.repo.DeleteTask(ctx, id)
	if err != nil {
		h.log.ErrorContext(ctx, "Error deleting task", "id", id, sl.Err(err))
		return detail(c, http.StatusInternalServerError, "Error deleting task.")
	}
	if !deleted {
		h.log.WarnContext(ctx, "Task not found", "id", id)
		return detail(c, http.StatusNotFound, "Task not found")
	}

	h.log.InfoContext(ctx, "Task deleted", "id", id)

	return c.NoContent(http.StatusAccepted)
}
