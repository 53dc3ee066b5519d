// Package events provides in-process change notifications for the data layer.
package events

import (
	"sync"
)

// Topic names a family of records whose changes can be observed
type Topic string

const (
	TopicTasks       Topic = "tasks"
	TopicNotes       Topic = "notes"
	TopicPreferences Topic = "preferences"
)

// Bus fans change signals out to subscribers.
// Signals coalesce: a subscriber that has not consumed the previous signal
// receives at most one pending signal, so Publish never blocks.
type Bus struct {
	mu   sync.Mutex
	subs map[Topic]map[chan struct{}]struct{}
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{
		subs: make(map[Topic]map[chan struct{}]struct{}),
	}
}

// Subscribe registers a subscriber for a topic.
// The returned func unsubscribes and is safe to call more than once.
func (b *Bus) Subscribe(topic Topic) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	b.mu.Lock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[chan struct{}]struct{})
	}
	b.subs[topic][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[topic], ch)
			b.mu.Unlock()
		})
	}
}

// Publish signals every subscriber of the topic
func (b *Bus) Publish(topic Topic) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs[topic] {
		select {
		case ch <- struct{}{}:
		default:
			// Already has a pending signal
		}
	}
}

// SubscriberCount returns the number of subscribers for a topic
func (b *Bus) SubscriberCount(topic Topic) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[topic])
}
