package model

import (
	"errors"
	"testing"
	"time"
)

func TestTaskValidateSuccess(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := Task{
		ID:        "task-1",
		Text:      "Write migration docs",
		Status:    TaskStatusTodo,
		Priority:  PriorityHigh,
		DueDate:   "2026-02-10",
		CreatedAt: now,
	}
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid task, got error: %v", err)
	}
}

func TestTaskValidateInvalidEnums(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := Task{
		ID:        "task-1",
		Text:      "Bad status",
		Status:    TaskStatus("archived"),
		Priority:  PriorityLow,
		CreatedAt: now,
	}
	err := task.Validate()
	if err == nil || !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got: %v", err)
	}

	task.Status = TaskStatusTodo
	task.Priority = Priority("urgent")
	err = task.Validate()
	if err == nil || !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got: %v", err)
	}
}

func TestTaskValidateRequiredFields(t *testing.T) {
	task := Task{
		ID:       " ",
		Text:     "Missing id",
		Status:   TaskStatusTodo,
		Priority: PriorityMedium,
	}
	if err := task.Validate(); err == nil {
		t.Fatal("expected error for blank id")
	}
	task.ID = "task-1"
	task.Text = ""
	if err := task.Validate(); err == nil {
		t.Fatal("expected error for blank text")
	}
}

func TestTaskDone(t *testing.T) {
	if (Task{Status: TaskStatusInProgress}).Done() {
		t.Fatal("in-progress task reported done")
	}
	if !(Task{Status: TaskStatusDone}).Done() {
		t.Fatal("done task not reported done")
	}
}
