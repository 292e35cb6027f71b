package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/taskflow-app/taskflowd/internal/model"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "taskflow-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo
}

func parseRFC3339(t *testing.T, value string) time.Time {
	t.Helper()
	out, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	return out
}

func TestTaskCRUDAndList(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	created := parseRFC3339(t, "2024-06-09T12:00:00Z")

	task := Task{
		ID:          "task-1",
		Text:        "Prepare quarterly report",
		Description: "Numbers from finance first",
		Status:      "todo",
		Priority:    "high",
		StartDate:   "2024-06-05",
		DueDate:     "2024-06-10",
		Tags:        []string{"work", "reports"},
		CreatedAt:   created,
	}
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}

	got, err := repo.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.Text != task.Text || got.Status != "todo" || got.DueDate != "2024-06-10" {
		t.Fatalf("unexpected task get result: %#v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "work" {
		t.Fatalf("unexpected tags: %#v", got.Tags)
	}

	task.Text = "Prepare quarterly report v2"
	task.Status = "in-progress"
	if err := repo.UpdateTask(ctx, task); err != nil {
		t.Fatalf("update task: %v", err)
	}

	inProgress, err := repo.ListTasks(ctx, TaskListFilter{Status: "in-progress"})
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(inProgress) != 1 || inProgress[0].ID != task.ID {
		t.Fatalf("unexpected in-progress list: %#v", inProgress)
	}

	if err := repo.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	if _, err := repo.GetTask(ctx, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestTaskNullableDates(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	task := Task{
		ID:        "task-nodates",
		Text:      "Someday maybe",
		Status:    "todo",
		Priority:  "low",
		CreatedAt: parseRFC3339(t, "2024-06-09T12:00:00Z"),
	}
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	got, err := repo.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.StartDate != "" || got.DueDate != "" {
		t.Fatalf("expected empty dates, got %q / %q", got.StartDate, got.DueDate)
	}
}

func TestCreateTasksBatchIsAtomic(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	created := parseRFC3339(t, "2024-06-09T12:00:00Z")

	batch := []Task{
		{ID: "b-1", Text: "Step one", Status: "todo", Priority: "medium", CreatedAt: created},
		{ID: "b-2", Text: "Step two", Status: "todo", Priority: "medium", CreatedAt: created},
		{ID: "b-1", Text: "Duplicate id", Status: "todo", Priority: "medium", CreatedAt: created},
	}
	if err := repo.CreateTasks(ctx, batch); err == nil {
		t.Fatal("expected batch insert with duplicate id to fail")
	}
	all, err := repo.ListTasks(ctx, TaskListFilter{})
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("failed batch must roll back, found %d tasks", len(all))
	}

	if err := repo.CreateTasks(ctx, batch[:2]); err != nil {
		t.Fatalf("create batch: %v", err)
	}
	all, err = repo.ListTasks(ctx, TaskListFilter{})
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(all))
	}
}

func TestUserCRUD(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	user := User{
		ID:        "user-1",
		Name:      "Dana",
		Email:     "dana@example.com",
		Role:      "admin",
		CreatedAt: parseRFC3339(t, "2024-06-09T12:00:00Z"),
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	user.TelegramChatID = "123456789"
	user.Bio = "Keeps the team on schedule"
	if err := repo.UpdateUser(ctx, user); err != nil {
		t.Fatalf("update user: %v", err)
	}

	got, err := repo.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.TelegramChatID != "123456789" {
		t.Fatalf("unexpected chat id: %q", got.TelegramChatID)
	}

	users, err := repo.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 1 || users[0].ID != "user-1" {
		t.Fatalf("unexpected users list: %#v", users)
	}

	if _, err := repo.GetUser(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTaskReaderConvertsToModel(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if err := repo.CreateTask(ctx, Task{
		ID:        "task-1",
		Text:      "Water plants",
		Status:    "todo",
		Priority:  "low",
		DueDate:   "2024-06-10",
		CreatedAt: parseRFC3339(t, "2024-06-09T12:00:00Z"),
	}); err != nil {
		t.Fatalf("create task: %v", err)
	}

	reader := NewTaskReader(repo)
	tasks, err := reader.ListTasks(ctx)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].DueDate != "2024-06-10" || tasks[0].Status != "todo" {
		t.Fatalf("unexpected model task: %#v", tasks[0])
	}
}

func TestTaskGatewayRoundTrip(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	gateway := NewTaskGateway(repo)

	task := model.Task{
		ID:        "task-1",
		Text:      "Book flights",
		Status:    model.TaskStatusTodo,
		Priority:  model.PriorityMedium,
		DueDate:   "2024-06-20",
		Tags:      []string{"travel"},
		CreatedAt: parseRFC3339(t, "2024-06-09T12:00:00Z"),
	}
	if err := gateway.CreateTask(ctx, task); err != nil {
		t.Fatalf("create via gateway: %v", err)
	}

	task.Status = model.TaskStatusDone
	if err := gateway.UpdateTask(ctx, task); err != nil {
		t.Fatalf("update via gateway: %v", err)
	}

	tasks, err := gateway.ListTasks(ctx)
	if err != nil {
		t.Fatalf("list via gateway: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Status != model.TaskStatusDone {
		t.Fatalf("unexpected gateway listing: %#v", tasks)
	}
}
