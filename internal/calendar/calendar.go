// Package calendar projects the task set onto a month grid: for every day
// cell it answers which tasks overlap that day and how each task's range
// segment should render there.
package calendar

import (
	"time"

	"github.com/taskflow-app/taskflowd/internal/model"
)

// Cell is one slot in the month grid. Leading cells before day 1 are
// blank so the first week aligns on the weekday the month starts on.
type Cell struct {
	Day   time.Time
	Blank bool
}

// Grid is the visible month: leading blanks plus one cell per day, weeks
// starting on Sunday.
type Grid struct {
	Year  int
	Month time.Month
	Cells []Cell
}

// MonthGrid builds the grid for the given month.
func MonthGrid(year int, month time.Month) Grid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	lastDay := first.AddDate(0, 1, -1).Day()

	cells := make([]Cell, 0, int(first.Weekday())+lastDay)
	for i := 0; i < int(first.Weekday()); i++ {
		cells = append(cells, Cell{Blank: true})
	}
	for day := 1; day <= lastDay; day++ {
		cells = append(cells, Cell{Day: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)})
	}
	return Grid{Year: year, Month: month, Cells: cells}
}

// Entry pairs a task with its segment role on a particular day.
type Entry struct {
	Task model.Task
	Role model.SegmentRole
}

// Project computes, for every non-blank day cell, the tasks whose date
// range covers that day, keyed by the day's ISO date. Tasks keep their
// input order within a cell; days with no overlapping tasks map to an
// empty list. The projection is pure: same inputs, same output.
func Project(tasks []model.Task, grid Grid) map[string][]Entry {
	out := make(map[string][]Entry, len(grid.Cells))
	for _, cell := range grid.Cells {
		if cell.Blank {
			continue
		}
		entries := make([]Entry, 0)
		for _, task := range tasks {
			if !model.InRange(cell.Day, task.StartDate, task.DueDate) {
				continue
			}
			entries = append(entries, Entry{
				Task: task,
				Role: model.SegmentRoleFor(cell.Day, task.StartDate, task.DueDate),
			})
		}
		out[cell.Day.Format(model.DayLayout)] = entries
	}
	return out
}
