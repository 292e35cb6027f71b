package storage

import (
	"time"

	"github.com/taskflow-app/taskflowd/internal/model"
)

type Task struct {
	ID          string
	Text        string
	Description string
	Status      string
	Priority    string
	StartDate   string
	DueDate     string
	Tags        []string
	AiGenerated bool
	CreatedAt   time.Time
}

type User struct {
	ID             string
	Name           string
	Email          string
	Role           string
	Bio            string
	TelegramChatID string
	CreatedAt      time.Time
}

type TaskListFilter struct {
	Status string
	Limit  int
	Offset int
}

func (t Task) ToModel() model.Task {
	return model.Task{
		ID:          t.ID,
		Text:        t.Text,
		Description: t.Description,
		Status:      model.TaskStatus(t.Status),
		Priority:    model.Priority(t.Priority),
		StartDate:   t.StartDate,
		DueDate:     t.DueDate,
		Tags:        t.Tags,
		AiGenerated: t.AiGenerated,
		CreatedAt:   t.CreatedAt,
	}
}

func TaskFromModel(in model.Task) Task {
	return Task{
		ID:          in.ID,
		Text:        in.Text,
		Description: in.Description,
		Status:      string(in.Status),
		Priority:    string(in.Priority),
		StartDate:   in.StartDate,
		DueDate:     in.DueDate,
		Tags:        in.Tags,
		AiGenerated: in.AiGenerated,
		CreatedAt:   in.CreatedAt,
	}
}
