package testkit

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/shashiranjanraj/catalog/pkg/event"
)

// EventRecorder records pkg/event dispatches through a testify mock so
// scenarios can assert which domain events a request fired.
type EventRecorder struct {
	mu        sync.Mutex
	m         mock.Mock
	listening map[string]bool
}

var recorder = &EventRecorder{listening: map[string]bool{}}

// Events returns the shared recorder used by the runner.
func Events() *EventRecorder { return recorder }

// Watch subscribes the recorder to name. Listeners cannot be removed from
// the event bus, so each name is subscribed at most once per process.
func (r *EventRecorder) Watch(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listening[name] {
		return
	}
	r.listening[name] = true
	r.m.On("Fired", name).Return()
	event.Listen(name, func(_ context.Context, _ interface{}) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.m.Called(name)
	})
}

// Reset clears recorded calls, keeping subscriptions.
func (r *EventRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m.Calls = nil
}

// Count returns how many times name fired since the last Reset.
func (r *EventRecorder) Count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.m.Calls {
		if c.Method == "Fired" && len(c.Arguments) == 1 && c.Arguments.String(0) == name {
			n++
		}
	}
	return n
}

// Mock exposes the underlying testify mock for custom assertions.
func (r *EventRecorder) Mock() *mock.Mock { return &r.m }
