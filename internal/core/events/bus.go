package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type Event interface {
	EventType() string
	EventID() string
	OccurredAt() time.Time
	Payload() interface{}
}

type BaseEvent struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) EventID() string       { return e.ID }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }
func (e BaseEvent) Payload() interface{}  { return e.Data }

type Handler func(ctx context.Context, event Event) error

// EventBus fans record events out to in-process subscribers. Publish runs
// handlers in the background; Drain waits for them before shutdown.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	inflight sync.WaitGroup
	logger   *slog.Logger
}

func NewEventBus(logger *slog.Logger) *EventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventBus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

func (eb *EventBus) Subscribe(eventType string, handler Handler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.handlers[eventType] = append(eb.handlers[eventType], handler)
	eb.logger.Debug("event handler registered",
		"event_type", eventType,
		"total_handlers", len(eb.handlers[eventType]))
}

// SubscribeAll registers handler for each of eventTypes.
func (eb *EventBus) SubscribeAll(eventTypes []string, handler Handler) {
	for _, t := range eventTypes {
		eb.Subscribe(t, handler)
	}
}

func (eb *EventBus) handlersFor(event Event) []Handler {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	hs := eb.handlers[event.EventType()]
	if len(hs) == 0 {
		eb.logger.Debug("no handlers for event type", "event_type", event.EventType())
		return nil
	}
	return append([]Handler(nil), hs...)
}

// Publish never blocks the caller; handler failures are only logged.
func (eb *EventBus) Publish(ctx context.Context, event Event) error {
	handlers := eb.handlersFor(event)
	if handlers == nil {
		return nil
	}

	log := eb.logger.With("event_type", event.EventType(), "event_id", event.EventID())
	log.Debug("publishing event", "handlers_count", len(handlers))

	// handlers outlive the request that published the event
	detached := context.WithoutCancel(ctx)
	eb.inflight.Add(len(handlers))
	for _, h := range handlers {
		go func(h Handler) {
			defer eb.inflight.Done()
			if err := h(detached, event); err != nil {
				log.Error("event handler failed", "error", err)
			}
		}(h)
	}
	return nil
}

// PublishSync runs handlers in registration order and stops at the first error.
func (eb *EventBus) PublishSync(ctx context.Context, event Event) error {
	for _, h := range eb.handlersFor(event) {
		if err := h(ctx, event); err != nil {
			eb.logger.Error("event handler failed",
				"event_type", event.EventType(),
				"event_id", event.EventID(),
				"error", err)
			return fmt.Errorf("handler failed for event %s: %w", event.EventType(), err)
		}
	}
	return nil
}

// Drain blocks until every handler started by Publish has returned or ctx is done.
func (eb *EventBus) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		eb.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
