// Package update holds the terminal client's elm-style model: one Model
// value, messages for everything that changes it, and per-view key
// handlers. Task data comes from a TaskStore and reminder toasts arrive
// over the engine's event channel.
package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/taskflow-app/taskflowd/internal/calendar"
	"github.com/taskflow-app/taskflowd/internal/model"
	"github.com/taskflow-app/taskflowd/internal/reminder"
)

type View string

const (
	ViewToday    View = "Today"
	ViewMatrix   View = "Matrix"
	ViewCalendar View = "Calendar"
	ViewCapture  View = "Capture"
)

// TaskStore is the slice of the repository the client needs.
type TaskStore interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	CreateTask(ctx context.Context, t model.Task) error
	UpdateTask(ctx context.Context, t model.Task) error
}

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Today    string
	Matrix   string
	Calendar string
	Capture  string
	Refresh  string
	Help     string
	Quit     string
}

type Toast struct {
	Message string
	Level   string
	At      time.Time
}

type TodayState struct {
	Items  []model.Task
	Cursor int
}

type CalendarState struct {
	Year   int
	Month  time.Month
	Days   map[string][]calendar.Entry
	Agenda []AgendaEntry
	Cursor int
}

// AgendaEntry is one task occurrence on one day, flattened from the
// month projection for cursor navigation.
type AgendaEntry struct {
	Day     string
	TaskID  string
	Title   string
	Segment model.SegmentRole
}

type CaptureState struct {
	Active bool
	Input  string
	Recent []string
}

type Model struct {
	CurrentView    View
	Tasks          []model.Task
	SelectedTaskID string
	Today          TodayState
	Matrix         map[model.Quadrant][]model.Task
	Calendar       CalendarState
	Capture        CaptureState
	Status         StatusBar
	Toasts         []Toast
	HelpVisible    bool
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error

	store  TaskStore
	events <-chan reminder.Event
	clock  func() time.Time

	// Bubble components used for rich TUI controls
	todayList      list.Model
	calendarTable  table.Model
	quickAddInput  textinput.Model
	syncSpinner    spinner.Model
	helpModel      help.Model
	detailViewport viewport.Model
	spinnerActive  bool
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title + " " + i.description }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type TasksLoadedMsg struct {
	Tasks []model.Task
}

type TaskSavedMsg struct {
	ID string
}

type ReminderEventMsg struct {
	Event reminder.Event
}

type ModelOptions struct {
	Store  TaskStore
	Events <-chan reminder.Event
	Clock  func() time.Time
}

func NewModel(opts ModelOptions) Model {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	now := clock()
	m := Model{
		CurrentView: ViewToday,
		Calendar: CalendarState{
			Year:  now.Year(),
			Month: now.Month(),
		},
		Keys: GlobalKeyMap{
			Today:    "1",
			Matrix:   "2",
			Calendar: "3",
			Capture:  "4",
			Refresh:  "r",
			Help:     "?",
			Quit:     "q",
		},
		store:  opts.Store,
		events: opts.Events,
		clock:  clock,
	}
	m.initBubbleComponents()
	m.recompute()
	m.syncBubbleData()
	return m
}

func (m *Model) initBubbleComponents() {
	m.todayList = list.New([]list.Item{}, list.NewDefaultDelegate(), 56, 12)
	m.todayList.Title = "Due today"
	m.todayList.SetShowHelp(false)
	m.todayList.SetFilteringEnabled(false)

	cols := []table.Column{
		{Title: "Day", Width: 12},
		{Title: "Segment", Width: 8},
		{Title: "Title", Width: 30},
	}
	m.calendarTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(10))

	m.quickAddInput = textinput.New()
	m.quickAddInput.Prompt = "add> "
	m.quickAddInput.CharLimit = 256
	m.quickAddInput.Width = 48

	m.syncSpinner = spinner.New()
	m.syncSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
	m.detailViewport = viewport.New(54, 12)
}

// recompute rebuilds the derived read models from the raw task slice.
func (m *Model) recompute() {
	now := m.clock()

	items := make([]model.Task, 0, len(m.Tasks))
	for _, t := range m.Tasks {
		if t.IsUrgent(now) {
			items = append(items, t)
		}
	}
	m.Today.Items = items
	if m.Today.Cursor >= len(items) && len(items) > 0 {
		m.Today.Cursor = len(items) - 1
	}
	if m.Today.Cursor < 0 {
		m.Today.Cursor = 0
	}

	m.Matrix = model.Partition(m.Tasks, now)

	grid := calendar.MonthGrid(m.Calendar.Year, m.Calendar.Month)
	m.Calendar.Days = calendar.Project(m.Tasks, grid)

	agenda := make([]AgendaEntry, 0)
	for _, cell := range grid.Cells {
		if cell.Blank {
			continue
		}
		day := cell.Day.Format(model.DayLayout)
		for _, entry := range m.Calendar.Days[day] {
			agenda = append(agenda, AgendaEntry{
				Day:     day,
				TaskID:  entry.Task.ID,
				Title:   entry.Task.Text,
				Segment: entry.Role,
			})
		}
	}
	m.Calendar.Agenda = agenda
	if m.Calendar.Cursor >= len(agenda) && len(agenda) > 0 {
		m.Calendar.Cursor = len(agenda) - 1
	}
	if m.Calendar.Cursor < 0 {
		m.Calendar.Cursor = 0
	}
}

func (m *Model) syncBubbleData() {
	todayItems := make([]list.Item, 0, len(m.Today.Items))
	for _, t := range m.Today.Items {
		todayItems = append(todayItems, listItem{title: t.Text, description: string(t.Priority) + " | due " + t.DueDate})
	}
	m.todayList.SetItems(todayItems)
	if len(todayItems) > 0 {
		m.todayList.Select(m.Today.Cursor)
	}

	rows := make([]table.Row, 0, len(m.Calendar.Agenda))
	for _, entry := range m.Calendar.Agenda {
		rows = append(rows, table.Row{entry.Day, string(entry.Segment), entry.Title})
	}
	m.calendarTable.SetRows(rows)
	if len(rows) > 0 && m.Calendar.Cursor < len(rows) {
		m.calendarTable.SetCursor(m.Calendar.Cursor)
	}

	m.quickAddInput.SetValue(m.Capture.Input)
	if m.Capture.Active {
		m.quickAddInput.Focus()
	}

	if selected, ok := m.selectedTask(); ok {
		m.detailViewport.SetContent(renderDetailMarkdown(selected))
	}
}

func (m Model) selectedTask() (model.Task, bool) {
	if m.SelectedTaskID == "" {
		return model.Task{}, false
	}
	for _, t := range m.Tasks {
		if t.ID == m.SelectedTaskID {
			return t, true
		}
	}
	return model.Task{}, false
}

func isKnownView(v View) bool {
	switch v {
	case ViewToday, ViewMatrix, ViewCalendar, ViewCapture:
		return true
	default:
		return false
	}
}
