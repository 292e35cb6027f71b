package update

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskflow-app/taskflowd/internal/model"
	"github.com/taskflow-app/taskflowd/internal/reminder"
)

type fakeStore struct {
	tasks   []model.Task
	created []model.Task
	updated []model.Task
	err     error
}

func (f *fakeStore) ListTasks(ctx context.Context) ([]model.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tasks, nil
}

func (f *fakeStore) CreateTask(ctx context.Context, t model.Task) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, t)
	f.tasks = append(f.tasks, t)
	return nil
}

func (f *fakeStore) UpdateTask(ctx context.Context, t model.Task) error {
	if f.err != nil {
		return f.err
	}
	f.updated = append(f.updated, t)
	return nil
}

func fixedClock() time.Time {
	return time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)
}

func newTestModel(store *fakeStore) Model {
	return NewModel(ModelOptions{Store: store, Clock: fixedClock})
}

func sampleTasks() []model.Task {
	created := fixedClock()
	return []model.Task{
		{ID: "t1", Text: "Pay rent", Status: model.TaskStatusTodo, Priority: model.PriorityHigh, DueDate: "2024-06-10", CreatedAt: created},
		{ID: "t2", Text: "File report", Status: model.TaskStatusTodo, Priority: model.PriorityLow, DueDate: "2024-06-01", CreatedAt: created},
		{ID: "t3", Text: "Plan quarter", Status: model.TaskStatusTodo, Priority: model.PriorityHigh, CreatedAt: created},
		{ID: "t4", Text: "Someday", Status: model.TaskStatusTodo, Priority: model.PriorityLow, CreatedAt: created},
	}
}

func TestNewModelDefaults(t *testing.T) {
	m := newTestModel(&fakeStore{})
	if m.CurrentView != ViewToday {
		t.Fatalf("expected default view %q, got %q", ViewToday, m.CurrentView)
	}
	if m.Keys.Quit != "q" {
		t.Fatalf("expected quit key q, got %q", m.Keys.Quit)
	}
	if m.Calendar.Year != 2024 || m.Calendar.Month != time.June {
		t.Fatalf("expected calendar on 2024-06, got %d-%d", m.Calendar.Year, m.Calendar.Month)
	}
}

func TestUpdateKeySwitchesView(t *testing.T) {
	m := newTestModel(&fakeStore{})
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	next := updated.(Model)
	if next.CurrentView != ViewMatrix {
		t.Fatalf("expected matrix view, got %q", next.CurrentView)
	}

	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})
	next = updated.(Model)
	if next.CurrentView != ViewCalendar {
		t.Fatalf("expected calendar view, got %q", next.CurrentView)
	}
}

func TestUpdateSwitchViewMsg(t *testing.T) {
	m := newTestModel(&fakeStore{})
	updated, _ := m.Update(SwitchViewMsg{View: ViewCalendar})
	next := updated.(Model)
	if next.CurrentView != ViewCalendar {
		t.Fatalf("expected calendar view, got %q", next.CurrentView)
	}

	updated, _ = next.Update(SwitchViewMsg{View: View("Unknown")})
	next = updated.(Model)
	if next.CurrentView != ViewCalendar {
		t.Fatalf("expected view unchanged for unknown view, got %q", next.CurrentView)
	}
}

func TestUpdateStatusAndError(t *testing.T) {
	m := newTestModel(&fakeStore{})
	updated, _ := m.Update(SetStatusMsg{Text: "ready", IsError: false})
	next := updated.(Model)
	if next.Status.Text != "ready" || next.Status.IsError {
		t.Fatalf("unexpected status: %+v", next.Status)
	}

	errMsg := errors.New("boom")
	updated, _ = next.Update(AppErrorMsg{Err: errMsg})
	next = updated.(Model)
	if next.LastError == nil || next.LastError.Error() != "boom" {
		t.Fatalf("expected last error boom, got: %v", next.LastError)
	}
	if !next.Status.IsError || next.Status.Text != "boom" {
		t.Fatalf("unexpected error status: %+v", next.Status)
	}

	updated, _ = next.Update(ClearStatusMsg{})
	next = updated.(Model)
	if next.Status.Text != "" || next.Status.IsError {
		t.Fatalf("expected cleared status, got: %+v", next.Status)
	}
}

func TestUpdateQuitKey(t *testing.T) {
	m := newTestModel(&fakeStore{})
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	next := updated.(Model)
	if !next.Quitting {
		t.Fatal("expected quitting flag true")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestTasksLoadedRecomputesReadModels(t *testing.T) {
	m := newTestModel(&fakeStore{})
	updated, _ := m.Update(TasksLoadedMsg{Tasks: sampleTasks()})
	next := updated.(Model)

	if len(next.Today.Items) != 2 {
		t.Fatalf("expected 2 urgent tasks, got %d", len(next.Today.Items))
	}
	if next.SelectedTaskID != "t1" {
		t.Fatalf("expected first urgent task selected, got %q", next.SelectedTaskID)
	}
	if len(next.Matrix[model.QuadrantDo]) != 1 || next.Matrix[model.QuadrantDo][0].ID != "t1" {
		t.Fatalf("unexpected do quadrant: %#v", next.Matrix[model.QuadrantDo])
	}
	if len(next.Matrix[model.QuadrantDecide]) != 1 || next.Matrix[model.QuadrantDecide][0].ID != "t3" {
		t.Fatalf("unexpected decide quadrant: %#v", next.Matrix[model.QuadrantDecide])
	}
	if entries := next.Calendar.Days["2024-06-10"]; len(entries) != 1 || entries[0].Task.ID != "t1" {
		t.Fatalf("unexpected calendar projection for June 10: %#v", entries)
	}
}

func TestTodayKeyNavigationUpdatesSelection(t *testing.T) {
	m := newTestModel(&fakeStore{})
	updated, _ := m.Update(TasksLoadedMsg{Tasks: sampleTasks()})
	next := updated.(Model)

	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	next = updated.(Model)
	if next.Today.Cursor != 1 || next.SelectedTaskID != "t2" {
		t.Fatalf("expected cursor 1 on t2, got cursor %d selected %q", next.Today.Cursor, next.SelectedTaskID)
	}

	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	next = updated.(Model)
	if next.Today.Cursor != 0 || next.SelectedTaskID != "t1" {
		t.Fatalf("expected cursor 0 on t1, got cursor %d selected %q", next.Today.Cursor, next.SelectedTaskID)
	}
}

func TestTodayEnterTogglesDone(t *testing.T) {
	store := &fakeStore{tasks: sampleTasks()}
	m := newTestModel(store)
	updated, _ := m.Update(TasksLoadedMsg{Tasks: store.tasks})
	next := updated.(Model)

	updated, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next = updated.(Model)
	if cmd == nil {
		t.Fatal("expected update command")
	}
	msg := cmd()
	saved, ok := msg.(TaskSavedMsg)
	if !ok {
		t.Fatalf("expected TaskSavedMsg, got %#v", msg)
	}
	if saved.ID != "t1" {
		t.Fatalf("expected t1 saved, got %q", saved.ID)
	}
	if len(store.updated) != 1 || store.updated[0].Status != model.TaskStatusDone {
		t.Fatalf("expected t1 marked done in store, got %#v", store.updated)
	}
}

func TestCaptureFlowCreatesTask(t *testing.T) {
	store := &fakeStore{}
	m := newTestModel(store)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'4'}})
	next := updated.(Model)
	if next.CurrentView != ViewCapture || !next.Capture.Active {
		t.Fatalf("expected active capture view, got %q active=%v", next.CurrentView, next.Capture.Active)
	}

	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("pay rent !high @2024-06-10 #finance")})
	next = updated.(Model)
	updated, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next = updated.(Model)
	if cmd == nil {
		t.Fatal("expected create command")
	}
	if _, ok := cmd().(TaskSavedMsg); !ok {
		t.Fatal("expected TaskSavedMsg from create command")
	}

	if len(store.created) != 1 {
		t.Fatalf("expected 1 created task, got %d", len(store.created))
	}
	created := store.created[0]
	if created.Text != "pay rent" || created.Priority != model.PriorityHigh || created.DueDate != "2024-06-10" {
		t.Fatalf("unexpected created task: %#v", created)
	}
	if created.ID == "" {
		t.Fatal("expected minted task id")
	}
	if next.Capture.Input != "" {
		t.Fatalf("expected cleared capture input, got %q", next.Capture.Input)
	}
	if len(next.Capture.Recent) != 1 {
		t.Fatalf("expected 1 recent capture, got %d", len(next.Capture.Recent))
	}
}

func TestCaptureParseErrorSetsStatus(t *testing.T) {
	store := &fakeStore{}
	m := newTestModel(store)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'4'}})
	next := updated.(Model)

	updated, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next = updated.(Model)
	if cmd != nil {
		t.Fatal("expected no command for empty capture")
	}
	if !next.Status.IsError {
		t.Fatalf("expected error status, got %+v", next.Status)
	}
	if len(store.created) != 0 {
		t.Fatalf("expected no created tasks, got %d", len(store.created))
	}
}

func TestCalendarMonthNavigation(t *testing.T) {
	m := newTestModel(&fakeStore{})
	m.CurrentView = ViewCalendar

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	next := updated.(Model)
	if next.Calendar.Year != 2024 || next.Calendar.Month != time.May {
		t.Fatalf("expected 2024-05, got %d-%d", next.Calendar.Year, next.Calendar.Month)
	}

	for i := 0; i < 8; i++ {
		updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
		next = updated.(Model)
	}
	if next.Calendar.Year != 2025 || next.Calendar.Month != time.January {
		t.Fatalf("expected 2025-01 after wrapping, got %d-%d", next.Calendar.Year, next.Calendar.Month)
	}
}

func TestReminderEventAddsToastAndRearms(t *testing.T) {
	sink := reminder.NewChannelSink(4)
	store := &fakeStore{}
	m := NewModel(ModelOptions{Store: store, Events: sink.C(), Clock: fixedClock})

	ev := reminder.Event{TaskID: "t1", Message: "Pay rent is due today", Level: reminder.LevelInfo, At: fixedClock()}
	updated, cmd := m.Update(ReminderEventMsg{Event: ev})
	next := updated.(Model)
	if len(next.Toasts) != 1 || next.Toasts[0].Message != "Pay rent is due today" {
		t.Fatalf("unexpected toasts: %#v", next.Toasts)
	}
	if cmd == nil {
		t.Fatal("expected event listener rearm cmd")
	}

	sink.Emit(reminder.Event{TaskID: "t2", Message: "next", Level: reminder.LevelInfo})
	msg := cmd()
	rearmed, ok := msg.(ReminderEventMsg)
	if !ok || rearmed.Event.TaskID != "t2" {
		t.Fatalf("expected rearm to deliver next event, got %#v", msg)
	}
}

func TestViewContainsCoreState(t *testing.T) {
	m := newTestModel(&fakeStore{})
	updated, _ := m.Update(TasksLoadedMsg{Tasks: sampleTasks()})
	next := updated.(Model)
	next.Status = StatusBar{Text: "all good"}

	out := next.View()
	if !strings.Contains(out, "view: Today") {
		t.Fatalf("expected view text in output: %q", out)
	}
	if !strings.Contains(out, "selected: t1") {
		t.Fatalf("expected selected task in output: %q", out)
	}
	if !strings.Contains(out, "status: all good") {
		t.Fatalf("expected status in output: %q", out)
	}
	if !strings.Contains(out, "Pay rent") {
		t.Fatalf("expected urgent task in output: %q", out)
	}
}

func TestMatrixViewRendersQuadrants(t *testing.T) {
	m := newTestModel(&fakeStore{})
	updated, _ := m.Update(TasksLoadedMsg{Tasks: sampleTasks()})
	next := updated.(Model)
	next.CurrentView = ViewMatrix

	out := next.View()
	for _, want := range []string{"do (", "decide (", "delegate (", "delete ("} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected quadrant %q in output: %q", want, out)
		}
	}
	if !strings.Contains(out, "Plan quarter") {
		t.Fatalf("expected decide task in output: %q", out)
	}
}

func TestUpdateSyncsBubbleComponents(t *testing.T) {
	m := newTestModel(&fakeStore{})
	updated, _ := m.Update(TasksLoadedMsg{Tasks: sampleTasks()})
	next := updated.(Model)

	if got := len(next.todayList.Items()); got != 2 {
		t.Fatalf("expected 2 list items after load, got %d", got)
	}
	rows := next.calendarTable.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 agenda rows after load, got %d", len(rows))
	}
	if rows[0][0] != "2024-06-01" || rows[1][0] != "2024-06-10" {
		t.Fatalf("unexpected agenda rows: %#v", rows)
	}
	if !strings.Contains(next.detailViewport.View(), "No description") {
		t.Fatalf("expected detail pane for selected task, got %q", next.detailViewport.View())
	}
}

func TestCaptureOpenReturnsFocusCommand(t *testing.T) {
	m := newTestModel(&fakeStore{})
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'4'}})
	if cmd == nil {
		t.Fatal("expected focus command when opening capture")
	}
	next := updated.(Model)

	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	next = updated.(Model)
	if next.Capture.Input != "x" {
		t.Fatalf("expected typed rune in capture input, got %q", next.Capture.Input)
	}

	updated, cmd = next.Update(SwitchViewMsg{View: ViewCapture})
	if cmd == nil {
		t.Fatal("expected focus command when switching to capture view")
	}
	if !updated.(Model).Capture.Active {
		t.Fatal("expected capture active after switch")
	}
}

func TestInitReturnsStoreAndEventCommands(t *testing.T) {
	sink := reminder.NewChannelSink(1)
	m := NewModel(ModelOptions{Store: &fakeStore{}, Events: sink.C(), Clock: fixedClock})
	if cmd := m.Init(); cmd == nil {
		t.Fatal("expected init command batch")
	}

	bare := NewModel(ModelOptions{Clock: fixedClock})
	if cmd := bare.Init(); cmd != nil {
		t.Fatal("expected no init command without store or events")
	}
}
