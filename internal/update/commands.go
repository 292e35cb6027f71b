package update

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskflow-app/taskflowd/internal/model"
	"github.com/taskflow-app/taskflowd/internal/reminder"
)

const storeTimeout = 5 * time.Second

func refreshTasksCmd(store TaskStore) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		tasks, err := store.ListTasks(ctx)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return TasksLoadedMsg{Tasks: tasks}
	}
}

func createTaskCmd(store TaskStore, task model.Task) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := store.CreateTask(ctx, task); err != nil {
			return AppErrorMsg{Err: err}
		}
		return TaskSavedMsg{ID: task.ID}
	}
}

func updateTaskCmd(store TaskStore, task model.Task) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := store.UpdateTask(ctx, task); err != nil {
			return AppErrorMsg{Err: err}
		}
		return TaskSavedMsg{ID: task.ID}
	}
}

// waitForEventCmd blocks on the engine's toast channel and re-arms after
// every received event.
func waitForEventCmd(ch <-chan reminder.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ReminderEventMsg{Event: ev}
	}
}
