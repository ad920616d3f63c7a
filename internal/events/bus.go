package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is an in-process domain event.
type Event struct {
	ID         uuid.UUID `json:"id"`
	Topic      string    `json:"topic"`
	Payload    any       `json:"payload"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Notifier reacts to emitted events (logging, metrics, etc.).
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, event Event) error

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus fans emitted events out to subscribed notifiers. Emission is
// synchronous; notifier failures never propagate to the emitter.
type Bus struct {
	mu        sync.RWMutex
	notifiers []Notifier
	OnError   func(topic string, err error)
}

// Subscribe registers a notifier for all topics.
func (b *Bus) Subscribe(n Notifier) {
	if b == nil || n == nil {
		return
	}
	b.mu.Lock()
	b.notifiers = append(b.notifiers, n)
	b.mu.Unlock()
}

// Emit dispatches an event to every subscribed notifier.
func (b *Bus) Emit(ctx context.Context, topic string, payload any) {
	if b == nil || topic == "" {
		return
	}
	event := Event{
		ID:         uuid.New(),
		Topic:      topic,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
	b.mu.RLock()
	notifiers := append([]Notifier(nil), b.notifiers...)
	b.mu.RUnlock()
	for _, n := range notifiers {
		if err := n.Notify(ctx, event); err != nil && b.OnError != nil {
			b.OnError(topic, err)
		}
	}
}
