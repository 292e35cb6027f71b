package model

import "time"

// Quadrant is one of the four Eisenhower buckets. Urgency is derived from
// the due date first, priority splits the remaining axis; no other task
// field participates.
type Quadrant string

const (
	QuadrantDo       Quadrant = "do"       // high priority, urgent
	QuadrantDecide   Quadrant = "decide"   // high priority, not urgent
	QuadrantDelegate Quadrant = "delegate" // not high priority, urgent
	QuadrantDelete   Quadrant = "delete"   // not high priority, not urgent
)

// Classify maps a non-done task to its quadrant for the given reference
// date. Classification is recomputed on every read because "today" moves.
func Classify(t Task, reference time.Time) Quadrant {
	urgent := t.IsUrgent(reference)
	high := t.Priority == PriorityHigh
	switch {
	case high && urgent:
		return QuadrantDo
	case high:
		return QuadrantDecide
	case urgent:
		return QuadrantDelegate
	default:
		return QuadrantDelete
	}
}

// Partition splits a task set into the four quadrants, excluding done
// tasks. Every non-done input task lands in exactly one bucket; order
// within a bucket follows the input order.
func Partition(tasks []Task, reference time.Time) map[Quadrant][]Task {
	out := map[Quadrant][]Task{
		QuadrantDo:       {},
		QuadrantDecide:   {},
		QuadrantDelegate: {},
		QuadrantDelete:   {},
	}
	for _, t := range tasks {
		if t.Done() {
			continue
		}
		q := Classify(t, reference)
		out[q] = append(out[q], t)
	}
	return out
}
