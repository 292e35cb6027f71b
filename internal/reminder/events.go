package reminder

import (
	"log/slog"
	"sync/atomic"
	"time"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Event is an in-app notification surfaced to the user (a toast in the
// terminal client, a log line in the daemon). It fires for every due-today
// task regardless of how the external channels fared.
type Event struct {
	TaskID  string
	Message string
	Level   Level
	At      time.Time
}

type EventSink interface {
	Emit(Event)
}

// LogSink reports events through structured logging. The daemon uses it.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Emit(ev Event) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("reminder event", "task_id", ev.TaskID, "level", string(ev.Level), "message", ev.Message)
}

// ChannelSink forwards events to a buffered channel without ever blocking
// the scan loop; events that find the buffer full are counted and dropped.
type ChannelSink struct {
	out     chan Event
	dropped uint64
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{out: make(chan Event, buffer)}
}

func (s *ChannelSink) C() <-chan Event {
	return s.out
}

func (s *ChannelSink) Emit(ev Event) {
	select {
	case s.out <- ev:
	default:
		atomic.AddUint64(&s.dropped, 1)
	}
}

func (s *ChannelSink) Dropped() uint64 {
	return atomic.LoadUint64(&s.dropped)
}
