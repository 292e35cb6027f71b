// Package commands parses the terminal client's quick-add syntax into a
// task draft: free text plus !priority, @due-date (or @start..due range)
// and #tag tokens, in any order.
package commands

import (
	"fmt"
	"strings"

	"github.com/taskflow-app/taskflowd/internal/model"
)

type ErrorCode string

const (
	ErrCodeEmptyInput   ErrorCode = "empty_input"
	ErrCodeInvalidDate  ErrorCode = "invalid_date"
	ErrCodeInvalidRange ErrorCode = "invalid_range"
)

type ParseError struct {
	Code    ErrorCode
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// QuickAdd is the parsed form of one capture line.
type QuickAdd struct {
	Text      string
	Priority  model.Priority
	StartDate string
	DueDate   string
	Tags      []string
}

// Parse interprets a quick-add line. Example:
//
//	pay rent !high @2024-06-10 #finance
//	conference trip @2024-06-05..2024-06-08 #travel
//
// Unrecognized tokens stay part of the task text.
func Parse(input string) (QuickAdd, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return QuickAdd{}, &ParseError{Code: ErrCodeEmptyInput, Message: "nothing to add"}
	}

	out := QuickAdd{Priority: model.PriorityMedium, Tags: []string{}}
	words := make([]string, 0, len(strings.Fields(raw)))

	for _, token := range strings.Fields(raw) {
		switch {
		case strings.HasPrefix(token, "!"):
			priority := model.Priority(strings.ToLower(strings.TrimPrefix(token, "!")))
			if !priority.IsValid() {
				words = append(words, token)
				continue
			}
			out.Priority = priority
		case strings.HasPrefix(token, "#"):
			tag := strings.TrimPrefix(token, "#")
			if tag == "" {
				continue
			}
			out.Tags = append(out.Tags, tag)
		case strings.HasPrefix(token, "@"):
			if err := parseDates(&out, strings.TrimPrefix(token, "@")); err != nil {
				return QuickAdd{}, err
			}
		default:
			words = append(words, token)
		}
	}

	out.Text = strings.TrimSpace(strings.Join(words, " "))
	if out.Text == "" {
		return QuickAdd{}, &ParseError{Code: ErrCodeEmptyInput, Message: "task needs a title"}
	}
	return out, nil
}

func parseDates(out *QuickAdd, value string) error {
	if from, to, ok := strings.Cut(value, ".."); ok {
		start, startOK := model.ParseDay(from)
		due, dueOK := model.ParseDay(to)
		if !startOK || !dueOK {
			return &ParseError{Code: ErrCodeInvalidDate, Message: fmt.Sprintf("cannot parse date range %q", value)}
		}
		if due.Before(start) {
			return &ParseError{Code: ErrCodeInvalidRange, Message: fmt.Sprintf("range %q ends before it starts", value)}
		}
		out.StartDate = start.Format(model.DayLayout)
		out.DueDate = due.Format(model.DayLayout)
		return nil
	}
	due, ok := model.ParseDay(value)
	if !ok {
		return &ParseError{Code: ErrCodeInvalidDate, Message: fmt.Sprintf("cannot parse date %q", value)}
	}
	out.DueDate = due.Format(model.DayLayout)
	return nil
}
