package update

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskflow-app/taskflowd/internal/calendar"
	"github.com/taskflow-app/taskflowd/internal/model"
	"github.com/taskflow-app/taskflowd/internal/views"
)

func (m Model) handleCalendarKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "h":
		m.shiftMonth(-1)
	case "l":
		m.shiftMonth(1)
	case "up", "k":
		if m.Calendar.Cursor > 0 {
			m.Calendar.Cursor--
		}
		m.syncSelectedTaskToCalendarCursor()
	case "down", "j":
		if m.Calendar.Cursor < len(m.Calendar.Agenda)-1 {
			m.Calendar.Cursor++
		}
		m.syncSelectedTaskToCalendarCursor()
	}
	return m
}

func (m *Model) shiftMonth(delta int) {
	month := int(m.Calendar.Month) + delta
	year := m.Calendar.Year
	for month < 1 {
		month += 12
		year--
	}
	for month > 12 {
		month -= 12
		year++
	}
	m.Calendar.Year = year
	m.Calendar.Month = time.Month(month)
	m.Calendar.Cursor = 0
	m.recompute()
}

func (m *Model) syncSelectedTaskToCalendarCursor() {
	if entry, ok := m.currentAgendaEntry(); ok {
		m.SelectedTaskID = entry.TaskID
	}
}

func (m Model) currentAgendaEntry() (AgendaEntry, bool) {
	if len(m.Calendar.Agenda) == 0 {
		return AgendaEntry{}, false
	}
	if m.Calendar.Cursor < 0 || m.Calendar.Cursor >= len(m.Calendar.Agenda) {
		return AgendaEntry{}, false
	}
	return m.Calendar.Agenda[m.Calendar.Cursor], true
}

func (m Model) renderCalendarView() string {
	grid := calendar.MonthGrid(m.Calendar.Year, m.Calendar.Month)

	entries := make([]views.CalendarEntryData, 0, len(m.Calendar.Agenda))
	for _, entry := range m.Calendar.Agenda {
		entries = append(entries, views.CalendarEntryData{
			ID:      entry.TaskID,
			Title:   entry.Title,
			Date:    entry.Day,
			Segment: string(entry.Segment),
		})
	}

	var selected *views.CalendarEntryData
	if entry, ok := m.currentAgendaEntry(); ok {
		selected = &views.CalendarEntryData{
			ID:      entry.TaskID,
			Title:   entry.Title,
			Date:    entry.Day,
			Segment: string(entry.Segment),
		}
	}

	return views.RenderCalendarPanel(views.CalendarPanelData{
		MonthTitle: fmt.Sprintf("%s %d", m.Calendar.Month, m.Calendar.Year),
		WeekRows:   weekRows(grid, m.Calendar.Days),
		TableView:  m.calendarTable.View(),
		Entries:    entries,
		Selected:   selected,
	})
}

// weekRows lays the month grid out as text, marking days that carry at
// least one task with an asterisk.
func weekRows(grid calendar.Grid, days map[string][]calendar.Entry) []string {
	rows := make([]string, 0, 6)
	var row []string
	flush := func() {
		if len(row) > 0 {
			rows = append(rows, strings.Join(row, " "))
			row = nil
		}
	}
	for _, cell := range grid.Cells {
		if cell.Blank {
			row = append(row, "   ")
		} else {
			marker := " "
			if len(days[cell.Day.Format(model.DayLayout)]) > 0 {
				marker = "*"
			}
			row = append(row, fmt.Sprintf("%2d", cell.Day.Day())+marker)
		}
		if len(row) == 7 {
			flush()
		}
	}
	flush()
	return rows
}
