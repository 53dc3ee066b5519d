package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishReachesEverySubscriber(t *testing.T) {
	bus := NewBus()
	a, unsubA := bus.Subscribe(TopicTasks)
	b, unsubB := bus.Subscribe(TopicTasks)
	defer unsubA()
	defer unsubB()

	bus.Publish(TopicTasks)

	assert.Len(t, a, 1)
	assert.Len(t, b, 1)
}

func TestPublishCoalesces(t *testing.T) {
	bus := NewBus()
	ch, unsub := bus.Subscribe(TopicNotes)
	defer unsub()

	for i := 0; i < 5; i++ {
		bus.Publish(TopicNotes)
	}

	assert.Len(t, ch, 1)
	<-ch
	assert.Len(t, ch, 0)
}

func TestTopicsAreIsolated(t *testing.T) {
	bus := NewBus()
	tasks, unsub := bus.Subscribe(TopicTasks)
	defer unsub()

	bus.Publish(TopicNotes)
	bus.Publish(TopicPreferences)

	assert.Len(t, tasks, 0)
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus()
	ch, unsub := bus.Subscribe(TopicTasks)
	assert.Equal(t, 1, bus.SubscriberCount(TopicTasks))

	unsub()
	unsub()
	assert.Equal(t, 0, bus.SubscriberCount(TopicTasks))

	bus.Publish(TopicTasks)
	assert.Len(t, ch, 0)
}
