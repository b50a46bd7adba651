package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Handler is a function that handles events.
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching. Dispatch is
// synchronous and in subscription order so notification ordering matches
// operation ordering; handlers are expected to be quick and to own their
// own error handling.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[EventType][]Handler)}
}

// Subscribe adds a handler for a specific event type.
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"tag":       event.Tag(),
	}).Debug("Emitting event")

	for _, handler := range handlers {
		handler(ctx, event)
	}
}

// Publish implements the service-layer publisher interface.
func (b *Bus) Publish(event Event) error {
	b.Emit(context.Background(), event)
	return nil
}
