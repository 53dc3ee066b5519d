package db

import (
	"context"
	"testing"
	"time"

	"github.com/dori/tasknote/internal/events"
	"github.com/dori/tasknote/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "channel closed early")
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	var zero T
	return zero
}

// receiveUntil drains snapshots until match accepts one
func receiveUntil[T any](t *testing.T, ch <-chan T, match func(T) bool) T {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case v, ok := <-ch:
			require.True(t, ok, "channel closed early")
			if match(v) {
				return v
			}
		case <-deadline:
			t.Fatal("timed out waiting for matching snapshot")
		}
	}
}

func TestWatchTasksEmitsOnEveryMutation(t *testing.T) {
	db := openTestDB(t, DriverCgo)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream := db.WatchTasks(ctx)
	assert.Empty(t, receive(t, stream))

	require.NoError(t, db.InsertTask(ctx, &model.Task{
		Timestamp: 1000,
		Title:     "Buy milk",
		Items:     []model.TaskItem{{ID: "a", Text: "2% milk"}},
	}))
	tasks := receiveUntil(t, stream, func(ts []model.Task) bool { return len(ts) == 1 })
	assert.Equal(t, "Buy milk", tasks[0].Title)

	require.NoError(t, db.ToggleTaskItemCompletion(ctx, "a", true))
	tasks = receiveUntil(t, stream, func(ts []model.Task) bool {
		return len(ts) == 1 && ts[0].Items[0].Completed
	})
	assert.Equal(t, 1, tasks[0].CountCompleted())

	require.NoError(t, db.DeleteTask(ctx, 1000))
	receiveUntil(t, stream, func(ts []model.Task) bool { return len(ts) == 0 })
}

func TestWatchTasksSubscribersAreIndependent(t *testing.T) {
	db := openTestDB(t, DriverCgo)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := db.WatchTasks(ctx)
	second := db.WatchTasks(ctx)
	receive(t, first)
	receive(t, second)

	require.NoError(t, db.InsertTask(ctx, &model.Task{Timestamp: 1, Title: "shared"}))

	a := receiveUntil(t, first, func(ts []model.Task) bool { return len(ts) == 1 })
	b := receiveUntil(t, second, func(ts []model.Task) bool { return len(ts) == 1 })
	assert.Equal(t, a, b)

	// each subscriber owns its snapshot
	a[0].Title = "changed"
	assert.Equal(t, "shared", b[0].Title)
}

func TestWatchStopsOnCancel(t *testing.T) {
	db := openTestDB(t, DriverCgo)
	ctx, cancel := context.WithCancel(context.Background())

	stream := db.WatchNotes(ctx)
	receive(t, stream)
	cancel()

	select {
	case _, ok := <-stream:
		if ok {
			// a snapshot may already be in flight; the next read must see close
			_, ok = <-stream
		}
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("stream not closed after cancel")
	}

	require.Eventually(t, func() bool {
		return db.Bus().SubscriberCount(events.TopicNotes) == 0
	}, 5*time.Second, 10*time.Millisecond)
}

func TestWatchNotesIgnoresTaskChanges(t *testing.T) {
	db := openTestDB(t, DriverCgo)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream := db.WatchNotes(ctx)
	receive(t, stream)

	require.NoError(t, db.InsertTask(ctx, &model.Task{Timestamp: 1, Title: "task"}))
	require.NoError(t, db.InsertNote(ctx, &model.Note{Timestamp: 2, Title: "note"}))

	notes := receive(t, stream)
	require.Len(t, notes, 1)
	assert.Equal(t, "note", notes[0].Title)
}
