package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/taskflow-app/taskflowd/internal/model"
	"github.com/taskflow-app/taskflowd/internal/notify"
)

// DefaultInterval is the fixed delay between due-today scans.
const DefaultInterval = 60 * time.Second

// Clock supplies the current time. Injectable so tests can pin "today".
type Clock func() time.Time

// TaskSource is the read-only view of the task set the engine polls.
type TaskSource interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
}

type Options struct {
	Source   TaskSource
	Local    notify.Dispatcher
	Remote   notify.Dispatcher
	Sink     EventSink
	Clock    Clock
	Logger   *slog.Logger
	Interval time.Duration
}

// Engine detects tasks whose due date is today and dispatches a
// notification for each at most once per process lifetime. Channel
// failures are isolated per channel and per task; a task is marked
// notified exactly once whether or not delivery succeeded, so the same
// task never spams across ticks.
type Engine struct {
	mu       sync.Mutex
	source   TaskSource
	local    notify.Dispatcher
	remote   notify.Dispatcher
	sink     EventSink
	clock    Clock
	logger   *slog.Logger
	interval time.Duration
	notified map[string]bool
	scanning bool
	started  bool
	stopped  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewEngine(opts Options) *Engine {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		source:   opts.Source,
		local:    opts.Local,
		remote:   opts.Remote,
		sink:     opts.Sink,
		clock:    clock,
		logger:   logger,
		interval: interval,
		notified: make(map[string]bool),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the scan loop: one scan immediately, then one per interval.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	go e.loop()
}

// Stop cancels the recurring timer. An in-flight scan finishes its current
// dispatches; no further scans run.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

func (e *Engine) loop() {
	defer close(e.doneCh)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	e.Scan(context.Background(), e.clock())
	for {
		select {
		case <-ticker.C:
			e.Scan(context.Background(), e.clock())
		case <-e.stopCh:
			return
		}
	}
}

// Scan runs one due-today pass over the task set and returns how many
// tasks were dispatched. A tick that arrives while a previous scan is
// still in flight is skipped rather than run concurrently.
func (e *Engine) Scan(ctx context.Context, now time.Time) int {
	e.mu.Lock()
	if e.scanning {
		e.mu.Unlock()
		e.logger.Warn("scan still in flight, skipping tick")
		return 0
	}
	e.scanning = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.scanning = false
		e.mu.Unlock()
	}()

	tasks, err := e.source.ListTasks(ctx)
	if err != nil {
		e.logger.Error("list tasks failed", "error", err)
		return 0
	}

	today := model.Day(now)
	dispatched := 0
	for _, task := range tasks {
		if task.Done() || !task.DueOn(today) {
			continue
		}
		e.mu.Lock()
		already := e.notified[task.ID]
		e.mu.Unlock()
		if already {
			continue
		}

		e.dispatch(ctx, e.local, "desktop", task, desktopNotification(task))
		// Remote dispatches are awaited one at a time across the batch.
		e.dispatch(ctx, e.remote, "telegram", task, remoteNotification(task))

		// Mark regardless of channel outcome: spam prevention wins over
		// delivery guarantees.
		e.mu.Lock()
		e.notified[task.ID] = true
		e.mu.Unlock()
		dispatched++

		if e.sink != nil {
			e.sink.Emit(Event{
				TaskID:  task.ID,
				Message: fmt.Sprintf("Reminder: %s due today", task.Text),
				Level:   LevelInfo,
				At:      now,
			})
		}
	}
	return dispatched
}

func (e *Engine) dispatch(ctx context.Context, d notify.Dispatcher, channel string, task model.Task, n notify.Notification) {
	if d == nil {
		return
	}
	err := d.Dispatch(ctx, n)
	switch {
	case err == nil:
		e.logger.Debug("notification dispatched", "channel", channel, "task_id", task.ID)
	case errors.Is(err, notify.ErrPermissionDenied), errors.Is(err, notify.ErrMissingDestination):
		e.logger.Debug("notification skipped", "channel", channel, "task_id", task.ID, "reason", err)
	default:
		e.logger.Warn("notification failed", "channel", channel, "task_id", task.ID, "error", err)
	}
}

// NotifiedCount reports how many tasks have fired during this process
// lifetime. The set is deliberately not persisted: a restart re-notifies
// anything still due today.
func (e *Engine) NotifiedCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.notified)
}

func desktopNotification(task model.Task) notify.Notification {
	return notify.Notification{
		Title: "📅 Task Due Today",
		Body:  fmt.Sprintf("Reminder: \"%s\" is scheduled for today!", task.Text),
	}
}

func remoteNotification(task model.Task) notify.Notification {
	return notify.Notification{
		Title: "TaskFlow Reminder",
		Body:  fmt.Sprintf("🔔 *TaskFlow Reminder*\n\nYour task *\"%s\"* is due today! 🚀", task.Text),
	}
}
