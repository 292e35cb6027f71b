package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/taskflow-app/taskflowd/internal/commands"
	"github.com/taskflow-app/taskflowd/internal/model"
	"github.com/taskflow-app/taskflowd/internal/views"
)

func (m Model) handleCaptureKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Capture.Active = false
		m.quickAddInput.Blur()
		m.CurrentView = ViewToday
		m.Status = StatusBar{Text: "capture closed", IsError: false}
		return m, nil
	case "enter":
		return m.submitCapture()
	}
	var cmd tea.Cmd
	m.quickAddInput, cmd = m.quickAddInput.Update(msg)
	m.Capture.Input = m.quickAddInput.Value()
	return m, cmd
}

func (m Model) submitCapture() (Model, tea.Cmd) {
	parsed, err := commands.Parse(m.Capture.Input)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	task := model.Task{
		ID:        uuid.NewString(),
		Text:      parsed.Text,
		Status:    model.TaskStatusTodo,
		Priority:  parsed.Priority,
		StartDate: parsed.StartDate,
		DueDate:   parsed.DueDate,
		Tags:      parsed.Tags,
		CreatedAt: m.clock(),
	}

	m.Capture.Input = ""
	m.quickAddInput.SetValue("")
	m.Capture.Recent = append(m.Capture.Recent, captureSummary(parsed))
	if len(m.Capture.Recent) > 10 {
		m.Capture.Recent = m.Capture.Recent[len(m.Capture.Recent)-10:]
	}
	m.Status = StatusBar{Text: fmt.Sprintf("captured %q", parsed.Text), IsError: false}
	return m, createTaskCmd(m.store, task)
}

func captureSummary(parsed commands.QuickAdd) string {
	line := parsed.Text + " [" + string(parsed.Priority) + "]"
	if parsed.DueDate != "" {
		line += " due:" + parsed.DueDate
	}
	return line
}

func (m Model) renderCaptureView() string {
	return views.RenderCapturePanel(views.CapturePanelData{
		InputView: m.quickAddInput.View(),
		Recent:    m.Capture.Recent,
	})
}
