// Package event provides the in-process event bus that carries domain
// events between application services. Dispatch is synchronous: by the
// time Publish returns, every subscribed handler has run, so approval
// outcomes are visible to the caller immediately.
package event

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/backoffice/backend/internal/domain/shared"
)

// InMemoryEventBus routes events to handlers registered per event type.
// Handlers subscribed with no types receive every event. A failing or
// panicking handler is logged and skipped; it never blocks the others.
type InMemoryEventBus struct {
	mu       sync.RWMutex
	byType   map[string][]shared.EventHandler
	catchAll []shared.EventHandler
	running  bool
	logger   *zap.Logger
}

// NewInMemoryEventBus creates a stopped bus; call Start before publishing
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		byType: make(map[string][]shared.EventHandler),
		logger: logger,
	}
}

// Start makes the bus accept publishes
func (b *InMemoryEventBus) Start(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.running = true
	b.logger.Info("event bus started")
	return nil
}

// Stop rejects further publishes. Synchronous dispatch means there is no
// in-flight work to drain.
func (b *InMemoryEventBus) Stop(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.running = false
	b.logger.Info("event bus stopped")
	return nil
}

// Subscribe registers a handler. Explicit eventTypes win; otherwise the
// handler's own EventTypes() decide, and an empty list subscribes it to
// every event.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(eventTypes) == 0 {
		b.catchAll = append(b.catchAll, handler)
	} else {
		for _, eventType := range eventTypes {
			b.byType[eventType] = append(b.byType[eventType], handler)
		}
	}
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler from every registration
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.catchAll = without(b.catchAll, handler)
	for eventType, handlers := range b.byType {
		remaining := without(handlers, handler)
		if len(remaining) == 0 {
			delete(b.byType, eventType)
		} else {
			b.byType[eventType] = remaining
		}
	}
}

// Publish dispatches each event to its handlers in subscription order.
// Handler errors are logged, not propagated: an event consumer must not
// be able to fail the producing business operation.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	b.mu.RLock()
	if !b.running {
		b.mu.RUnlock()
		return shared.NewDomainErrorf(shared.CodeDependencyUnavailable, "event bus is not running")
	}
	b.mu.RUnlock()

	for _, evt := range events {
		for _, handler := range b.handlersFor(evt.EventType()) {
			if err := b.dispatch(ctx, handler, evt); err != nil {
				b.logger.Error("event handler failed",
					zap.String("event_type", evt.EventType()),
					zap.String("event_id", evt.EventID().String()),
					zap.Error(err))
			}
		}
	}
	return nil
}

func (b *InMemoryEventBus) handlersFor(eventType string) []shared.EventHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	typed := b.byType[eventType]
	handlers := make([]shared.EventHandler, 0, len(typed)+len(b.catchAll))
	handlers = append(handlers, typed...)
	handlers = append(handlers, b.catchAll...)
	return handlers
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, evt shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("event_type", evt.EventType()),
				zap.Any("panic", r))
		}
	}()
	return handler.Handle(ctx, evt)
}

func without(handlers []shared.EventHandler, target shared.EventHandler) []shared.EventHandler {
	remaining := handlers[:0:0]
	for _, h := range handlers {
		if h != target {
			remaining = append(remaining, h)
		}
	}
	return remaining
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
