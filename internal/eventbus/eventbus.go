package eventbus

import (
	"log"
	"runtime/debug"
	"sync"

	"mixdeck/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventRecallRequested   = domain.EventRecallRequested
	EventSelectionMade     = domain.EventSelectionMade
	EventSearchStarted     = domain.EventSearchStarted
	EventSearchCompleted   = domain.EventSearchCompleted
	EventStorageChanged    = domain.EventStorageChanged
	EventHistoryChanged    = domain.EventHistoryChanged
	EventPlaybackRequested = domain.EventPlaybackRequested
	EventConfigLoaded      = domain.EventConfigLoaded
	EventConfigSaved       = domain.EventConfigSaved
)

// Re-export domain event types
type RecallRequestedEvent = domain.RecallRequestedEvent
type SelectionMadeEvent = domain.SelectionMadeEvent
type SearchStartedEvent = domain.SearchStartedEvent
type SearchCompletedEvent = domain.SearchCompletedEvent
type StorageChangedEvent = domain.StorageChangedEvent
type HistoryChangedEvent = domain.HistoryChangedEvent
type PlaybackRequestedEvent = domain.PlaybackRequestedEvent
type ConfigLoadedEvent = domain.ConfigLoadedEvent
type ConfigSavedEvent = domain.ConfigSavedEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus is the concrete implementation of EventBus.
// Handlers run on the publishing goroutine, in subscription order.
type bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]subscription
	nextID   uint64
}

// New creates a new event bus
func New() EventBus {
	return &bus{
		handlers: make(map[EventType][]subscription),
	}
}

// Publish delivers an event to every subscriber before returning
func (b *bus) Publish(event DomainEvent) {
	if event == nil {
		return
	}

	// Skip logging for high-frequency events
	switch event.Type() {
	case EventStorageChanged, EventSearchStarted:
	default:
		log.Printf("EventBus: Publishing event %s", event.Type())
	}

	// Snapshot so handlers can subscribe/unsubscribe without deadlocking
	b.mu.RLock()
	subs := b.handlers[event.Type()]
	handlersCopy := make([]subscription, len(subs))
	copy(handlersCopy, subs)
	b.mu.RUnlock()

	for _, sub := range handlersCopy {
		b.invoke(sub.handler, event)
	}
}

// Subscribe subscribes to events of a specific type.
// Returns an unsubscribe function; calling it more than once is harmless.
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()

			subs := b.handlers[eventType]
			for i, s := range subs {
				if s.id == id {
					// Copy into a fresh slice; in-flight snapshots keep the old one
					next := make([]subscription, 0, len(subs)-1)
					next = append(next, subs[:i]...)
					next = append(next, subs[i+1:]...)
					b.handlers[eventType] = next
					break
				}
			}
		})
	}
}

func (b *bus) invoke(h EventHandler, event DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Event handler panic for %s: %v\nStack: %s", event.Type(), r, debug.Stack())
		}
	}()
	h(event)
}

// PublishRecall asks the search host to re-run a previous query
func PublishRecall(b EventBus, query string) {
	b.Publish(RecallRequestedEvent{Query: query})
}

// SubscribeRecall registers a handler receiving the raw recalled query
func SubscribeRecall(b EventBus, handler func(query string)) func() {
	return b.Subscribe(EventRecallRequested, func(e DomainEvent) {
		if event, ok := e.(RecallRequestedEvent); ok {
			handler(event.Query)
		}
	})
}

// PublishSelection announces that a result was picked. origin only positions the animation.
func PublishSelection(b EventBus, image domain.SelectedImage, origin domain.Rect) {
	b.Publish(SelectionMadeEvent{Image: image, Origin: origin})
}

// SubscribeSelection registers a handler for result selections
func SubscribeSelection(b EventBus, handler func(image domain.SelectedImage, origin domain.Rect)) func() {
	return b.Subscribe(EventSelectionMade, func(e DomainEvent) {
		if event, ok := e.(SelectionMadeEvent); ok {
			handler(event.Image, event.Origin)
		}
	})
}
