package update

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskflow-app/taskflowd/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, 2)
	if cmd := refreshTasksCmd(m.store); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if cmd := waitForEventCmd(m.events); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Update applies the message and then syncs the bubble components against
// the resulting state, so the returned model's widgets always reflect it.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncBubbleData()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		keyStr := typed.String()

		if m.Capture.Active && keyStr != "ctrl+c" {
			return m.handleCaptureKey(typed)
		}

		switch keyStr {
		case m.Keys.Today:
			m.CurrentView = ViewToday
			return m, nil
		case m.Keys.Matrix:
			m.CurrentView = ViewMatrix
			return m, nil
		case m.Keys.Calendar:
			m.CurrentView = ViewCalendar
			return m, nil
		case m.Keys.Capture:
			m.CurrentView = ViewCapture
			m.Capture.Active = true
			m.Status = StatusBar{Text: "capture mode", IsError: false}
			return m, m.quickAddInput.Focus()
		case m.Keys.Refresh:
			if !m.spinnerActive {
				m.spinnerActive = true
				m.Status = StatusBar{Text: "refreshing tasks", IsError: false}
				return m, tea.Batch(m.syncSpinner.Tick, refreshTasksCmd(m.store))
			}
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}

		switch m.CurrentView {
		case ViewToday:
			return m.handleTodayKey(typed)
		case ViewCalendar:
			return m.handleCalendarKey(typed), nil
		}
		return m, nil
	case spinner.TickMsg:
		if m.spinnerActive {
			var cmd tea.Cmd
			m.syncSpinner, cmd = m.syncSpinner.Update(typed)
			return m, cmd
		}
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
			if typed.View == ViewCapture {
				m.Capture.Active = true
				return m, m.quickAddInput.Focus()
			}
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		m.spinnerActive = false
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	case TasksLoadedMsg:
		m.Tasks = typed.Tasks
		m.spinnerActive = false
		m.recompute()
		if m.SelectedTaskID == "" && len(m.Today.Items) > 0 {
			m.SelectedTaskID = m.Today.Items[m.Today.Cursor].ID
		}
		m.Status = StatusBar{Text: fmt.Sprintf("%d tasks loaded", len(typed.Tasks)), IsError: false}
		return m, nil
	case TaskSavedMsg:
		m.Status = StatusBar{Text: fmt.Sprintf("task saved: %s", typed.ID), IsError: false}
		return m, refreshTasksCmd(m.store)
	case ReminderEventMsg:
		m.addToast(typed.Event.Message, string(typed.Event.Level), typed.Event.At)
		return m, waitForEventCmd(m.events)
	}

	return m, nil
}

func (m *Model) addToast(message, level string, at time.Time) {
	if strings.TrimSpace(message) == "" {
		return
	}
	if at.IsZero() {
		at = m.clock()
	}
	m.Toasts = append(m.Toasts, Toast{Message: message, Level: level, At: at})
	if len(m.Toasts) > 40 {
		m.Toasts = m.Toasts[len(m.Toasts)-40:]
	}
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	leftPane := ""
	rightPane := ""
	switch m.CurrentView {
	case ViewToday:
		leftPane = m.renderTodayView()
		rightPane = m.renderTaskDetailPane() + m.renderHelpIfVisible()
	case ViewMatrix:
		leftPane = m.renderMatrixView()
		rightPane = m.renderTaskDetailPane() + m.renderHelpIfVisible()
	case ViewCalendar:
		leftPane = m.renderCalendarView()
		rightPane = m.renderHelpIfVisible()
	case ViewCapture:
		leftPane = m.renderCaptureView()
		rightPane = m.renderHelpIfVisible()
	}

	toastView := ""
	if len(m.Toasts) > 0 {
		last := m.Toasts[len(m.Toasts)-1]
		toastView = views.RenderToast(last.Level, last.Message)
	}
	if m.spinnerActive {
		spin := m.syncSpinner.View()
		toastView = strings.TrimSpace(strings.Join([]string{toastView, "refresh: " + spin + " running"}, "\n"))
	}

	return views.RenderApp(views.AppData{
		Header:        fmt.Sprintf("taskflow | view: %s | selected: %s", m.CurrentView, m.SelectedTaskID),
		LeftPane:      leftPane,
		RightPane:     rightPane,
		StatusLine:    status,
		StatusIsError: m.Status.IsError,
		Toast:         toastView,
		Footer:        fmt.Sprintf("keys: %s today | %s matrix | %s cal | %s capture | %s refresh | %s help | %s quit", m.Keys.Today, m.Keys.Matrix, m.Keys.Calendar, m.Keys.Capture, m.Keys.Refresh, m.Keys.Help, m.Keys.Quit),
	})
}
