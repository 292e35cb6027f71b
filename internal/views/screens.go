package views

import (
	"fmt"
	"sort"
	"strings"
)

type TodayItemData struct {
	ID       string
	Title    string
	Priority string
	DueDate  string
	Overdue  bool
	Done     bool
}

type TodayPanelData struct {
	ListView   string
	Items      []TodayItemData
	SelectedID string
}

type MatrixQuadrantData struct {
	Name  string
	Label string
	Items []string
}

type MatrixPanelData struct {
	Date      string
	Quadrants []MatrixQuadrantData
}

type CalendarEntryData struct {
	ID      string
	Title   string
	Date    string
	Segment string
}

type CalendarPanelData struct {
	MonthTitle string
	WeekRows   []string
	TableView  string
	Entries    []CalendarEntryData
	Selected   *CalendarEntryData
}

type CapturePanelData struct {
	InputView string
	Recent    []string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

type TaskDetailData struct {
	SelectedID       string
	Priority         string
	Status           string
	Tags             []string
	Dates            string
	MarkdownBodyView string
}

func RenderTodayPanel(data TodayPanelData) string {
	var b strings.Builder
	b.WriteString("today:\n")
	b.WriteString("actions: [j/k]move [enter]toggle-done [1]today [2]matrix [3]calendar [4]capture\n")
	b.WriteString(data.ListView + "\n")
	if len(data.Items) == 0 {
		b.WriteString("\n(nothing due today)")
		return strings.TrimSpace(b.String())
	}
	b.WriteString("\n")
	for _, item := range data.Items {
		cursor := " "
		if data.SelectedID == item.ID {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s %s", cursor, urgencyBadge(item), item.Title))
		if item.DueDate != "" {
			b.WriteString(fmt.Sprintf(" due:%s", item.DueDate))
		}
		if item.Done {
			b.WriteString(" [done]")
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderMatrixPanel(data MatrixPanelData) string {
	var b strings.Builder
	b.WriteString("matrix:\n")
	b.WriteString(fmt.Sprintf("date: %s\n", data.Date))
	for _, q := range data.Quadrants {
		b.WriteString(fmt.Sprintf("\n%s (%s):\n", q.Name, q.Label))
		if len(q.Items) == 0 {
			b.WriteString("  (none)\n")
			continue
		}
		for _, item := range q.Items {
			b.WriteString("- " + item + "\n")
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderCalendarPanel(data CalendarPanelData) string {
	var b strings.Builder
	b.WriteString("calendar:\n")
	b.WriteString(fmt.Sprintf("month: %s\n", data.MonthTitle))
	b.WriteString("actions: [h/l]month [j/k]agenda [1]today [2]matrix [4]capture\n")
	b.WriteString("Su Mo Tu We Th Fr Sa\n")
	for _, row := range data.WeekRows {
		b.WriteString(row + "\n")
	}
	b.WriteString(data.TableView + "\n")

	grouped := make(map[string][]CalendarEntryData)
	keys := make([]string, 0)
	for _, entry := range data.Entries {
		if _, ok := grouped[entry.Date]; !ok {
			keys = append(keys, entry.Date)
		}
		grouped[entry.Date] = append(grouped[entry.Date], entry)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		b.WriteString("(agenda empty)")
		return strings.TrimSpace(b.String())
	}

	for _, day := range keys {
		b.WriteString(fmt.Sprintf("\n%s:\n", day))
		for _, entry := range grouped[day] {
			cursor := " "
			if data.Selected != nil && data.Selected.ID == entry.ID && data.Selected.Date == entry.Date {
				cursor = ">"
			}
			b.WriteString(fmt.Sprintf("%s [%s] %s\n", cursor, strings.ToUpper(entry.Segment), entry.Title))
		}
	}

	if data.Selected != nil {
		b.WriteString("\nagenda-metadata:\n")
		b.WriteString(fmt.Sprintf("id: %s\n", data.Selected.ID))
		b.WriteString(fmt.Sprintf("segment: %s\n", data.Selected.Segment))
		b.WriteString(fmt.Sprintf("day: %s\n", data.Selected.Date))
	}
	return strings.TrimSpace(b.String())
}

func RenderCapturePanel(data CapturePanelData) string {
	var b strings.Builder
	b.WriteString("capture:\n")
	b.WriteString(data.InputView + "\n")
	b.WriteString("syntax: title !priority @due-date (or @start..due) #tag\n")
	b.WriteString("actions: [enter]add [esc]back\n")
	if len(data.Recent) > 0 {
		b.WriteString("\nrecent:\n")
		for _, line := range data.Recent {
			b.WriteString("- " + line + "\n")
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderToast(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("toast: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\nglobal:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func RenderTaskDetail(data TaskDetailData) string {
	if strings.TrimSpace(data.SelectedID) == "" {
		return "detail:\n(no selection)"
	}
	return fmt.Sprintf("detail:\nid: %s\nstatus: %s\npriority: %s\ntags: %s\ndates: %s\n\ndescription:\n%s",
		data.SelectedID,
		data.Status,
		data.Priority,
		strings.Join(data.Tags, ","),
		data.Dates,
		data.MarkdownBodyView,
	)
}

func urgencyBadge(item TodayItemData) string {
	if item.Overdue || item.Priority == "high" {
		return "[RED]"
	}
	if item.Priority == "medium" {
		return "[YELLOW]"
	}
	return "[GREEN]"
}
