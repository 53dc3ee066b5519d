package db

import (
	"context"
	"log/slog"

	"github.com/dori/tasknote/internal/events"
	"github.com/dori/tasknote/internal/model"
)

// WatchTasks emits the full task list now and after every committed change
// to tasks or their items. Each subscriber re-reads independently; there is
// no shared snapshot. The channel closes when ctx is done.
func (db *DB) WatchTasks(ctx context.Context) <-chan []model.Task {
	return watch(ctx, db.bus, events.TopicTasks, db.GetAllTasks)
}

// WatchNotes emits the full note list now and after every change
func (db *DB) WatchNotes(ctx context.Context) <-chan []model.Note {
	return watch(ctx, db.bus, events.TopicNotes, db.GetAllNotes)
}

func watch[T any](ctx context.Context, bus *events.Bus, topic events.Topic, load func(context.Context) (T, error)) <-chan T {
	out := make(chan T)

	// Subscribe before the first read so no change slips in between
	signal, unsubscribe := bus.Subscribe(topic)

	go func() {
		defer close(out)
		defer unsubscribe()

		for {
			snapshot, err := load(ctx)
			switch {
			case ctx.Err() != nil:
				return
			case err != nil:
				slog.Error("failed to reload watched records", "topic", topic, "error", err)
			default:
				select {
				case out <- snapshot:
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-signal:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
