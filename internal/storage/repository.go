package storage

import (
	"context"
	"errors"

	"github.com/taskflow-app/taskflowd/internal/model"
)

var ErrNotFound = errors.New("storage: not found")

type Repository interface {
	CreateTask(ctx context.Context, in Task) error
	CreateTasks(ctx context.Context, in []Task) error
	GetTask(ctx context.Context, id string) (Task, error)
	UpdateTask(ctx context.Context, in Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context, filter TaskListFilter) ([]Task, error)

	CreateUser(ctx context.Context, in User) error
	GetUser(ctx context.Context, id string) (User, error)
	UpdateUser(ctx context.Context, in User) error
	ListUsers(ctx context.Context) ([]User, error)
}

// TaskReader adapts a Repository to the read-only task view the reminder
// engine and the projections consume.
type TaskReader struct {
	repo Repository
}

func NewTaskReader(repo Repository) *TaskReader {
	return &TaskReader{repo: repo}
}

func (r *TaskReader) ListTasks(ctx context.Context) ([]model.Task, error) {
	rows, err := r.repo.ListTasks(ctx, TaskListFilter{})
	if err != nil {
		return nil, err
	}
	out := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToModel())
	}
	return out, nil
}

// TaskGateway adds model-typed writes on top of TaskReader. The terminal
// client talks to the store through it.
type TaskGateway struct {
	TaskReader
}

func NewTaskGateway(repo Repository) *TaskGateway {
	return &TaskGateway{TaskReader: TaskReader{repo: repo}}
}

func (g *TaskGateway) CreateTask(ctx context.Context, in model.Task) error {
	return g.repo.CreateTask(ctx, TaskFromModel(in))
}

func (g *TaskGateway) UpdateTask(ctx context.Context, in model.Task) error {
	return g.repo.UpdateTask(ctx, TaskFromModel(in))
}
