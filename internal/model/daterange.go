package model

import (
	"strings"
	"time"
)

// DayLayout is the wire format for task dates: calendar day, no clock.
const DayLayout = "2006-01-02"

// ParseDay parses a task date string at day granularity. It also accepts a
// full RFC 3339 timestamp and truncates it. The ok result is false for
// empty or malformed input; callers treat that as "no date set".
func ParseDay(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, false
	}
	if day, err := time.Parse(DayLayout, trimmed); err == nil {
		return day, true
	}
	if ts, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return Day(ts), true
	}
	return time.Time{}, false
}

// Day truncates a timestamp to midnight UTC so that all range and urgency
// comparisons happen at day granularity.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// IsUrgent reports whether the task's due date is on or before the
// reference date. Overdue tasks count as urgent; a task without a parsable
// due date is never urgent.
func (t Task) IsUrgent(reference time.Time) bool {
	due, ok := ParseDay(t.DueDate)
	if !ok {
		return false
	}
	return !due.After(Day(reference))
}

// DueOn reports whether the task's due date falls exactly on the given day.
func (t Task) DueOn(day time.Time) bool {
	due, ok := ParseDay(t.DueDate)
	if !ok {
		return false
	}
	return due.Equal(Day(day))
}

// InRange reports whether day lies within the task's [start, due] range,
// inclusive on both ends. With only a due date set the task occupies that
// single day. With neither set (or both malformed) nothing matches.
func InRange(day time.Time, startDate, dueDate string) bool {
	check := Day(day)
	start, hasStart := ParseDay(startDate)
	due, hasDue := ParseDay(dueDate)
	switch {
	case !hasDue:
		return false
	case !hasStart:
		return check.Equal(due)
	default:
		return !check.Before(start) && !check.After(due)
	}
}

// SegmentRole is the visual position of a ranged task within one calendar
// day cell, used to join adjacent cells into a continuous bar.
type SegmentRole string

const (
	SegmentNone   SegmentRole = "none"
	SegmentStart  SegmentRole = "start"
	SegmentMiddle SegmentRole = "middle"
	SegmentEnd    SegmentRole = "end"
	SegmentBoth   SegmentRole = "both"
)

// SegmentRoleFor computes the segment role of the [startDate, dueDate]
// range on the given day. A single-day range (start == due, or only a due
// date set) renders as SegmentBoth.
func SegmentRoleFor(day time.Time, startDate, dueDate string) SegmentRole {
	check := Day(day)
	start, hasStart := ParseDay(startDate)
	due, hasDue := ParseDay(dueDate)
	if !hasDue {
		return SegmentNone
	}
	if !hasStart || start.Equal(due) {
		if check.Equal(due) {
			return SegmentBoth
		}
		return SegmentNone
	}
	switch {
	case check.Equal(start):
		return SegmentStart
	case check.Equal(due):
		return SegmentEnd
	case check.After(start) && check.Before(due):
		return SegmentMiddle
	default:
		return SegmentNone
	}
}
