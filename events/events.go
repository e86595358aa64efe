package events

import (
	"context"
	"fmt"
	"log"
	"sync"
)

const (
	EventNewComment           = "new_comment"
	EventRequestStatusChanged = "request_status_changed"
)

// Event is a named payload handed to every subscriber of Name.
type Event struct {
	Name    string
	Payload interface{}
}

// Handler consumes one event. A returned error is logged by the bus and
// never reaches the publisher.
type Handler func(ctx context.Context, event Event) error

// Bus is the publish/subscribe surface the services depend on.
type Bus interface {
	Publish(ctx context.Context, event Event)
	Subscribe(name string, handler Handler)
}

type subscription struct {
	name    string
	handler Handler
}

// Emitter is an in-process Bus. Handlers run synchronously on the
// publisher's goroutine in the order they subscribed.
type Emitter struct {
	mu          sync.RWMutex
	subscribers map[string][]subscription
}

func NewEmitter() *Emitter {
	return &Emitter{subscribers: make(map[string][]subscription)}
}

// Subscribe registers handler for events called name.
func (e *Emitter) Subscribe(name string, handler Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subscribers[name] = append(e.subscribers[name], subscription{name: name, handler: handler})
}

func (e *Emitter) Publish(ctx context.Context, event Event) {
	e.mu.RLock()
	subs := make([]subscription, len(e.subscribers[event.Name]))
	copy(subs, e.subscribers[event.Name])
	e.mu.RUnlock()

	for i, sub := range subs {
		if err := dispatch(ctx, sub.handler, event); err != nil {
			log.Printf("event %s: subscriber %d failed: %v", event.Name, i, err)
		}
	}
}

func dispatch(ctx context.Context, handler Handler, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return handler(ctx, event)
}

// Subscribers returns how many handlers are registered for name.
func (e *Emitter) Subscribers(name string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.subscribers[name])
}
