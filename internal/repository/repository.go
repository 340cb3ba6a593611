package repository

import (
	"context"
	"errors"

	"github.com/UnknownOlympus/taskboard/internal/metrics"
	"github.com/UnknownOlympus/taskboard/internal/models"
)

var ErrTaskNotFound = errors.New("task not found")

type Repository struct {
	db      Database
	metrics *metrics.Metrics
}

// TaskRepoIface represents the interface for interacting with task data in the repository.
type TaskRepoIface interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	GetTaskByID(ctx context.Context, taskID int) (models.Task, error)
	CreateTask(ctx context.Context, task models.Task) (models.Task, error)
	UpdateTask(ctx context.Context, taskID int, update models.TaskUpdate) (models.Task, error)
	DeleteTask(ctx context.Context, taskID int) (bool, error)
	TaskExists(ctx context.Context, taskID int) (bool, error)
}

func NewTaskRepository(db Database, metrics *metrics.Metrics) TaskRepoIface {
	return &Repository{db: db, metrics: metrics}
}
