package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskflow-app/taskflowd/internal/model"
	"github.com/taskflow-app/taskflowd/internal/views"
)

func (m Model) handleTodayKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.Today.Cursor > 0 {
			m.Today.Cursor--
		}
		m.syncSelectedTaskToTodayCursor()
	case "down", "j":
		if m.Today.Cursor < len(m.Today.Items)-1 {
			m.Today.Cursor++
		}
		m.syncSelectedTaskToTodayCursor()
	case "enter", " ":
		if task, ok := m.currentTodayItem(); ok {
			if task.Done() {
				task.Status = model.TaskStatusTodo
			} else {
				task.Status = model.TaskStatusDone
			}
			m.Status = StatusBar{Text: fmt.Sprintf("toggling %s", task.ID), IsError: false}
			return m, updateTaskCmd(m.store, task)
		}
	}
	return m, nil
}

func (m *Model) syncSelectedTaskToTodayCursor() {
	if selected, ok := m.currentTodayItem(); ok {
		m.SelectedTaskID = selected.ID
	}
}

func (m Model) currentTodayItem() (model.Task, bool) {
	if len(m.Today.Items) == 0 {
		return model.Task{}, false
	}
	if m.Today.Cursor < 0 || m.Today.Cursor >= len(m.Today.Items) {
		return model.Task{}, false
	}
	return m.Today.Items[m.Today.Cursor], true
}

func (m Model) renderTodayView() string {
	now := m.clock()
	items := make([]views.TodayItemData, 0, len(m.Today.Items))
	for _, t := range m.Today.Items {
		overdue := t.IsUrgent(now) && !t.DueOn(now)
		items = append(items, views.TodayItemData{
			ID:       t.ID,
			Title:    t.Text,
			Priority: string(t.Priority),
			DueDate:  t.DueDate,
			Overdue:  overdue,
			Done:     t.Done(),
		})
	}
	return views.RenderTodayPanel(views.TodayPanelData{
		ListView:   m.todayList.View(),
		Items:      items,
		SelectedID: m.SelectedTaskID,
	})
}

func (m Model) renderTaskDetailPane() string {
	selected, ok := m.selectedTask()
	if !ok {
		return "detail:\n(no selection)"
	}
	dates := selected.DueDate
	if selected.StartDate != "" {
		dates = selected.StartDate + " .. " + selected.DueDate
	}
	return views.RenderTaskDetail(views.TaskDetailData{
		SelectedID:       selected.ID,
		Priority:         string(selected.Priority),
		Status:           string(selected.Status),
		Tags:             selected.Tags,
		Dates:            dates,
		MarkdownBodyView: m.detailViewport.View(),
	})
}

func renderDetailMarkdown(t model.Task) string {
	body := t.Description
	if strings.TrimSpace(body) == "" {
		body = "_No description_"
	}
	return views.RenderMarkdown(body)
}
