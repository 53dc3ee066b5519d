package notify

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/dori/tasknote/internal/model"
)

// Scheduler schedules one reminder per task, keyed by task timestamp
type Scheduler interface {
	Schedule(task model.Task) error
	Cancel(taskTimestamp int64)
	HasPermission() bool
	Pending() []int64
}

// TimerScheduler fires reminders from in-process timers
type TimerScheduler struct {
	mu     sync.Mutex
	sender Sender
	lead   time.Duration
	timers map[int64]*time.Timer
	now    func() time.Time
	allow  func() bool
}

// NewTimerScheduler creates a scheduler that reminds lead before each deadline
func NewTimerScheduler(sender Sender, lead time.Duration) *TimerScheduler {
	s := &TimerScheduler{
		sender: sender,
		lead:   lead,
		timers: make(map[int64]*time.Timer),
		now:    time.Now,
		allow:  func() bool { return true },
	}
	if n, ok := sender.(*Notifier); ok {
		s.allow = func() bool { return n.IsEnabled() && n.Available() }
	}
	return s
}

// Schedule sets or replaces the reminder for a task. Done tasks and tasks
// whose deadline has passed get no reminder.
func (s *TimerScheduler) Schedule(task model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked(task.Timestamp)

	now := s.now()
	due := task.Due()
	if task.IsDone || !due.After(now) {
		return nil
	}

	wait := due.Add(-s.lead).Sub(now)
	if wait < 0 {
		wait = 0
	}

	ts := task.Timestamp
	title := task.Title
	var timer *time.Timer
	timer = time.AfterFunc(wait, func() {
		s.mu.Lock()
		if s.timers[ts] == timer {
			delete(s.timers, ts)
		}
		s.mu.Unlock()

		dueIn := due.Sub(s.now())
		if err := s.sender.SendDueReminder(title, dueIn); err != nil {
			slog.Warn("failed to send reminder", "task", ts, "error", err)
		}
	})
	s.timers[ts] = timer

	slog.Debug("reminder scheduled", "task", ts, "in", wait)
	return nil
}

// Cancel removes a task's pending reminder, if any
func (s *TimerScheduler) Cancel(taskTimestamp int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(taskTimestamp)
}

func (s *TimerScheduler) cancelLocked(ts int64) {
	if timer, ok := s.timers[ts]; ok {
		timer.Stop()
		delete(s.timers, ts)
	}
}

// HasPermission reports whether reminders can be delivered
func (s *TimerScheduler) HasPermission() bool {
	return s.allow()
}

// Pending returns the timestamps of tasks with a scheduled reminder
func (s *TimerScheduler) Pending() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := make([]int64, 0, len(s.timers))
	for ts := range s.timers {
		pending = append(pending, ts)
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i] < pending[j] })
	return pending
}

// Sync reconciles reminders with a full task list: tasks that disappeared
// lose their reminder, every listed task is rescheduled
func (s *TimerScheduler) Sync(tasks []model.Task) {
	present := make(map[int64]bool, len(tasks))
	for _, t := range tasks {
		present[t.Timestamp] = true
	}

	for _, ts := range s.Pending() {
		if !present[ts] {
			s.Cancel(ts)
		}
	}

	for _, t := range tasks {
		if err := s.Schedule(t); err != nil {
			slog.Warn("failed to schedule reminder", "task", t.Timestamp, "error", err)
		}
	}
}

// Stop cancels every pending reminder
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ts := range s.timers {
		s.cancelLocked(ts)
	}
}

// Noop is a scheduler for processes that do not own reminders
type Noop struct{}

func (Noop) Schedule(model.Task) error { return nil }
func (Noop) Cancel(int64)              {}
func (Noop) HasPermission() bool       { return false }
func (Noop) Pending() []int64          { return nil }

var (
	_ Scheduler = (*TimerScheduler)(nil)
	_ Scheduler = Noop{}
)
