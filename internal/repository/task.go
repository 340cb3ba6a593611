package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/UnknownOlympus/taskboard/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus"
)

const taskColumns = "id, title, description, completed"

func (r *Repository) observe(queryType string) func() {
	timer := prometheus.NewTimer(r.metrics.DBQueryDuration.WithLabelValues(queryType))
	return func() { timer.ObserveDuration() }
}

// ListTasks returns every task ordered by id.
func (r *Repository) ListTasks(ctx context.Context) ([]models.Task, error) {
	defer r.observe("list_tasks")()

	rows, err := r.db.Query(ctx, "SELECT "+taskColumns+" FROM task ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		var task models.Task
		if err = rows.Scan(&task.ID, &task.Title, &task.Description, &task.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error while iterating task rows: %w", err)
	}

	return tasks, nil
}

// GetTaskByID returns the task with the given id or ErrTaskNotFound.
func (r *Repository) GetTaskByID(ctx context.Context, taskID int) (models.Task, error) {
	defer r.observe("get_task")()

	var task models.Task
	err := r.db.QueryRow(ctx, "SELECT "+taskColumns+" FROM task WHERE id = $1", taskID).
		Scan(&task.ID, &task.Title, &task.Description, &task.Completed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Task{}, fmt.Errorf("%w: id %d", ErrTaskNotFound, taskID)
		}
		return models.Task{}, fmt.Errorf("failed to get task '%d': %w", taskID, err)
	}

	return task, nil
}

// CreateTask inserts a task and returns it with its generated id.
func (r *Repository) CreateTask(ctx context.Context, task models.Task) (models.Task, error) {
	defer r.observe("create_task")()

	query := `
		INSERT INTO task (title, description, completed)
		VALUES ($1, $2, $3)
		RETURNING ` + taskColumns

	var created models.Task
	err := r.db.QueryRow(ctx, query, task.Title, task.Description, task.Completed).
		Scan(&created.ID, &created.Title, &created.Description, &created.Completed)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to insert new task '%s': %w", task.Title, err)
	}

	return created, nil
}

// UpdateTask applies the fields present in update and returns the stored task.
func (r *Repository) UpdateTask(ctx context.Context, taskID int, update models.TaskUpdate) (models.Task, error) {
	defer r.observe("update_task")()

	query := `
		UPDATE task
		SET
			title = COALESCE($1, title),
			description = CASE WHEN $4 THEN $2::text ELSE description END,
			completed = COALESCE($3, completed)
		WHERE
			id = $5
		RETURNING ` + taskColumns

	var updated models.Task
	err := r.db.QueryRow(ctx, query,
		update.Title, update.Description, update.Completed, update.HasDescription(), taskID).
		Scan(&updated.ID, &updated.Title, &updated.Description, &updated.Completed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Task{}, fmt.Errorf("%w: id %d", ErrTaskNotFound, taskID)
		}
		return models.Task{}, fmt.Errorf("task update error '%d': %w", taskID, err)
	}

	return updated, nil
}

// DeleteTask removes the task and reports whether a row was deleted.
func (r *Repository) DeleteTask(ctx context.Context, taskID int) (bool, error) {
	defer r.observe("delete_task")()

	tag, err := r.db.Exec(ctx, "DELETE FROM task WHERE id = $1", taskID)
	if err != nil {
		return false, fmt.Errorf("failed to delete task '%d': %w", taskID, err)
	}

	return tag.RowsAffected() > 0, nil
}

// TaskExists checks if a task with the given id is stored.
func (r *Repository) TaskExists(ctx context.Context, taskID int) (bool, error) {
	defer r.observe("task_exists")()

	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM task WHERE id = $1)", taskID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking the existence of the task: %w", err)
	}

	return exists, nil
}
