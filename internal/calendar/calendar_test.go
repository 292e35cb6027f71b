package calendar

import (
	"reflect"
	"testing"
	"time"

	"github.com/taskflow-app/taskflowd/internal/model"
)

func TestMonthGridShape(t *testing.T) {
	// June 2024 starts on a Saturday: 6 leading blanks, 30 days.
	grid := MonthGrid(2024, time.June)
	if len(grid.Cells) != 36 {
		t.Fatalf("expected 36 cells, got %d", len(grid.Cells))
	}
	for i := 0; i < 6; i++ {
		if !grid.Cells[i].Blank {
			t.Fatalf("cell %d should be blank", i)
		}
	}
	if grid.Cells[6].Blank || grid.Cells[6].Day.Day() != 1 {
		t.Fatalf("cell 6 should be June 1, got %#v", grid.Cells[6])
	}
	last := grid.Cells[len(grid.Cells)-1]
	if last.Day.Day() != 30 {
		t.Fatalf("last cell should be June 30, got %v", last.Day)
	}
}

func TestMonthGridNoLeadingBlanks(t *testing.T) {
	// September 2024 starts on a Sunday.
	grid := MonthGrid(2024, time.September)
	if grid.Cells[0].Blank {
		t.Fatal("month starting on Sunday should have no leading blanks")
	}
	if len(grid.Cells) != 30 {
		t.Fatalf("expected 30 cells, got %d", len(grid.Cells))
	}
}

func TestProjectRangesAndPoints(t *testing.T) {
	tasks := []model.Task{
		{ID: "ranged", Text: "Conference", StartDate: "2024-06-05", DueDate: "2024-06-08"},
		{ID: "point", Text: "Dentist", DueDate: "2024-06-06"},
		{ID: "elsewhere", Text: "Next month", DueDate: "2024-07-02"},
		{ID: "undated", Text: "Someday"},
	}
	grid := MonthGrid(2024, time.June)
	projected := Project(tasks, grid)

	day5 := projected["2024-06-05"]
	if len(day5) != 1 || day5[0].Task.ID != "ranged" || day5[0].Role != model.SegmentStart {
		t.Fatalf("unexpected entries for June 5: %#v", day5)
	}

	day6 := projected["2024-06-06"]
	if len(day6) != 2 {
		t.Fatalf("expected 2 entries for June 6, got %d", len(day6))
	}
	if day6[0].Task.ID != "ranged" || day6[0].Role != model.SegmentMiddle {
		t.Fatalf("unexpected first entry for June 6: %#v", day6[0])
	}
	if day6[1].Task.ID != "point" || day6[1].Role != model.SegmentBoth {
		t.Fatalf("unexpected second entry for June 6: %#v", day6[1])
	}

	day8 := projected["2024-06-08"]
	if len(day8) != 1 || day8[0].Role != model.SegmentEnd {
		t.Fatalf("unexpected entries for June 8: %#v", day8)
	}

	day9 := projected["2024-06-09"]
	if len(day9) != 0 {
		t.Fatalf("June 9 should be empty, got %#v", day9)
	}
}

func TestProjectKeepsTaskSetOrder(t *testing.T) {
	tasks := []model.Task{
		{ID: "z", Text: "Low first", Priority: model.PriorityLow, DueDate: "2024-06-06"},
		{ID: "a", Text: "High second", Priority: model.PriorityHigh, DueDate: "2024-06-06"},
	}
	projected := Project(tasks, MonthGrid(2024, time.June))
	day6 := projected["2024-06-06"]
	if len(day6) != 2 || day6[0].Task.ID != "z" || day6[1].Task.ID != "a" {
		t.Fatalf("projection must preserve input order, got %#v", day6)
	}
}

func TestProjectIsIdempotent(t *testing.T) {
	tasks := []model.Task{
		{ID: "ranged", Text: "Conference", StartDate: "2024-06-05", DueDate: "2024-06-08"},
		{ID: "point", Text: "Dentist", DueDate: "2024-06-06"},
	}
	grid := MonthGrid(2024, time.June)
	first := Project(tasks, grid)
	second := Project(tasks, grid)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("projecting the same inputs twice must yield identical results")
	}
}
