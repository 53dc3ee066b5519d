package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/dori/tasknote/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu     sync.Mutex
	titles []string
	sent   chan string
}

func newFakeSender() *fakeSender {
	return &fakeSender{sent: make(chan string, 16)}
}

func (f *fakeSender) SendDueReminder(taskTitle string, _ time.Duration) error {
	f.mu.Lock()
	f.titles = append(f.titles, taskTitle)
	f.mu.Unlock()
	f.sent <- taskTitle
	return nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.titles)
}

func fixedScheduler(sender Sender, lead time.Duration, now time.Time) *TimerScheduler {
	s := NewTimerScheduler(sender, lead)
	s.now = func() time.Time { return now }
	return s
}

func TestBuildArgs(t *testing.T) {
	args := buildArgs(Notification{
		Title:   "Buy milk",
		Body:    "soon",
		Urgency: UrgencyCritical,
		Timeout: 2 * time.Second,
		Icon:    "bell",
	})
	assert.Equal(t, []string{"-u", "critical", "-t", "2000", "-i", "bell", "-a", "tasknote", "Buy milk", "soon"}, args)

	args = buildArgs(Notification{Title: "plain"})
	assert.Equal(t, []string{"-u", "normal", "-a", "tasknote", "plain"}, args)
}

func TestDueReminderUrgency(t *testing.T) {
	assert.Equal(t, UrgencyCritical, dueReminder("x", 0).Urgency)
	assert.Equal(t, "Task is now overdue!", dueReminder("x", -time.Minute).Body)
	assert.Equal(t, UrgencyNormal, dueReminder("x", 30*time.Minute).Urgency)
	assert.Equal(t, "Task due in less than an hour", dueReminder("x", 30*time.Minute).Body)
	assert.Equal(t, "Task due soon", dueReminder("x", 3*time.Hour).Body)
}

func TestDisabledNotifierSendsNothing(t *testing.T) {
	n := NewNotifier()
	n.command = "/nonexistent/notify-send"
	n.SetEnabled(false)
	assert.False(t, n.IsEnabled())
	assert.NoError(t, n.SendSimple("title", "body"))
	assert.False(t, n.Available())
}

func TestScheduleSkipsDoneAndPastTasks(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := fixedScheduler(newFakeSender(), 10*time.Minute, now)
	defer s.Stop()

	past := model.Task{Timestamp: now.Add(-time.Hour).UnixMilli(), Title: "past"}
	done := model.Task{Timestamp: now.Add(time.Hour).UnixMilli(), Title: "done", IsDone: true}
	future := model.Task{Timestamp: now.Add(time.Hour).UnixMilli() + 1, Title: "future"}

	require.NoError(t, s.Schedule(past))
	require.NoError(t, s.Schedule(done))
	require.NoError(t, s.Schedule(future))

	assert.Equal(t, []int64{future.Timestamp}, s.Pending())
}

func TestRescheduleReplacesAndDoneCancels(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := fixedScheduler(newFakeSender(), 0, now)
	defer s.Stop()

	task := model.Task{Timestamp: now.Add(time.Hour).UnixMilli(), Title: "meeting"}
	require.NoError(t, s.Schedule(task))
	require.NoError(t, s.Schedule(task))
	assert.Len(t, s.Pending(), 1)

	task.IsDone = true
	require.NoError(t, s.Schedule(task))
	assert.Empty(t, s.Pending())
}

func TestReminderFires(t *testing.T) {
	now := time.Now()
	sender := newFakeSender()
	s := fixedScheduler(sender, time.Hour, now)
	defer s.Stop()

	// inside the lead window, so the reminder fires right away
	task := model.Task{Timestamp: now.Add(30 * time.Minute).UnixMilli(), Title: "standup"}
	require.NoError(t, s.Schedule(task))

	select {
	case title := <-sender.sent:
		assert.Equal(t, "standup", title)
	case <-time.After(5 * time.Second):
		t.Fatal("reminder never fired")
	}

	require.Eventually(t, func() bool { return len(s.Pending()) == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestCancelPreventsReminder(t *testing.T) {
	now := time.Now()
	sender := newFakeSender()
	s := fixedScheduler(sender, 0, now)

	task := model.Task{Timestamp: now.Add(50 * time.Millisecond).UnixMilli(), Title: "cancelled"}
	require.NoError(t, s.Schedule(task))
	s.Cancel(task.Timestamp)

	time.Sleep(150 * time.Millisecond)
	assert.Zero(t, sender.count())
	assert.Empty(t, s.Pending())
}

func TestSyncReconciles(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := fixedScheduler(newFakeSender(), 0, now)
	defer s.Stop()

	a := model.Task{Timestamp: now.Add(time.Hour).UnixMilli(), Title: "a"}
	b := model.Task{Timestamp: now.Add(2 * time.Hour).UnixMilli(), Title: "b"}
	s.Sync([]model.Task{a, b})
	assert.Equal(t, []int64{a.Timestamp, b.Timestamp}, s.Pending())

	b.IsDone = true
	c := model.Task{Timestamp: now.Add(3 * time.Hour).UnixMilli(), Title: "c"}
	s.Sync([]model.Task{b, c})
	assert.Equal(t, []int64{c.Timestamp}, s.Pending())

	s.Stop()
	assert.Empty(t, s.Pending())
}

func TestHasPermission(t *testing.T) {
	assert.True(t, NewTimerScheduler(newFakeSender(), 0).HasPermission())

	n := NewNotifier()
	n.SetEnabled(false)
	assert.False(t, NewTimerScheduler(n, 0).HasPermission())

	var noop Scheduler = Noop{}
	assert.False(t, noop.HasPermission())
	assert.NoError(t, noop.Schedule(model.Task{}))
	assert.Nil(t, noop.Pending())
}
