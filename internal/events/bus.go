// Package events is the in-process publish/subscribe bus. Modules
// publish lifecycle events; subscribers (the websocket stream, the
// snapshot scheduler) react without the modules knowing about them.
package events

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// EventType identifies a class of event
type EventType string

const (
	// RunCreated fires when a run is registered in the manifest
	RunCreated EventType = "run_created"
	// RunFinished fires when a run completes or fails
	RunFinished EventType = "run_finished"
	// SeedApplied fires when the generator is (re)seeded
	SeedApplied EventType = "seed_applied"
	// SnapshotWritten fires after a state snapshot lands on disk
	SnapshotWritten EventType = "snapshot_written"
	// StateReported fires after a CSV state report is written
	StateReported EventType = "state_reported"
)

// Event is one published occurrence
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      EventData `json:"data,omitempty"`
}

// Handler receives published events. Handlers run synchronously on the
// publisher's goroutine; long work belongs on the handler's own
// goroutine.
type Handler func(event *Event)

// subscription pairs a handler with the id its unsubscribe closure
// removes it by
type subscription struct {
	id      uint64
	handler Handler
}

// Bus fans published events out to per-type subscribers
type Bus struct {
	mu          sync.RWMutex
	subscribers map[EventType][]subscription
	nextID      uint64
	log         zerolog.Logger
}

// NewBus creates an empty bus
func NewBus(log zerolog.Logger) *Bus {
	return &Bus{
		subscribers: make(map[EventType][]subscription),
		log:         log.With().Str("component", "events").Logger(),
	}
}

// Subscribe registers a handler for one event type. The returned
// function removes the handler again; calling it more than once is
// safe.
func (b *Bus) Subscribe(eventType EventType, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subscribers[eventType] = append(b.subscribers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subscribers[eventType]
		for i, sub := range subs {
			if sub.id == id {
				// Copy so a Publish holding the old slice is unaffected
				b.subscribers[eventType] = append(append([]subscription{}, subs[:i]...), subs[i+1:]...)
				return
			}
		}
	}
}

// SubscriberCount reports how many handlers are attached for one type
func (b *Bus) SubscriberCount(eventType EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[eventType])
}

// Publish delivers the event to every subscriber of its type. The type
// comes from the data itself, so a payload can never be published under
// the wrong type.
func (b *Bus) Publish(data EventData) {
	event := &Event{
		Type:      data.EventType(),
		Timestamp: time.Now(),
		Data:      data,
	}

	b.mu.RLock()
	subs := b.subscribers[event.Type]
	handlers := make([]Handler, len(subs))
	for i, sub := range subs {
		handlers[i] = sub.handler
	}
	b.mu.RUnlock()

	b.log.Debug().
		Str("event_type", string(event.Type)).
		Int("subscribers", len(handlers)).
		Msg("Publishing event")

	for _, handler := range handlers {
		handler(event)
	}
}
