// Package views renders the terminal client's screens as plain text
// panels inside a lipgloss frame. Renderers are pure string functions so
// the update package can be tested without a terminal.
package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header        string
	LeftPane      string
	RightPane     string
	StatusLine    string
	StatusIsError bool
	Toast         string
	Footer        string
}

const (
	mainPaneWidth    = 66
	sidePaneWidth    = 46
	markdownWrapCols = sidePaneWidth - 4
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	mainPaneStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(mainPaneWidth)
	sidePaneStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1).Width(sidePaneWidth)
	statusOKStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Padding(0, 1)
	statusErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true).Padding(0, 1)
	toastStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Foreground(lipgloss.Color("11")).Padding(0, 1)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Padding(0, 1)
)

// RenderApp assembles the frame: header bar, a wide main pane beside a
// narrower side pane, then status, toast, and footer rows. Empty rows are
// dropped rather than rendered blank.
func RenderApp(data AppData) string {
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		mainPaneStyle.Render(data.LeftPane),
		sidePaneStyle.Render(data.RightPane),
	)

	rows := []string{headerStyle.Render(data.Header), body}
	if data.StatusLine != "" {
		style := statusOKStyle
		if data.StatusIsError {
			style = statusErrStyle
		}
		rows = append(rows, style.Render(data.StatusLine))
	}
	if data.Toast != "" {
		rows = append(rows, toastStyle.Render(data.Toast))
	}
	if data.Footer != "" {
		rows = append(rows, footerStyle.Render(data.Footer))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// RenderMarkdown renders markdown wrapped to the side pane's width. On any
// renderer failure the raw markdown is shown instead.
func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(markdownWrapCols),
	)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
