// Package events carries engine notifications to the API, CLI and any other
// observer. Delivery is a synchronous fan-out to the handlers registered at
// publish time; there is no queue and no replay.
package events

import (
	"slices"
	"sync"
	"time"
)

// Type identifies a notification.
type Type string

const (
	EventProgress        Type = "progress"
	EventDeviceFound     Type = "device_found"
	EventScanComplete    Type = "scan_complete"
	EventRegistryChanged Type = "registry_changed"
)

// Event is one notification. Data holds a scanning.Progress for
// EventProgress, a device.Device for EventDeviceFound and a []device.Device
// for the other two types.
type Event struct {
	Type      Type      `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	ScanID    string    `json:"scan_id,omitempty"`
	Data      any       `json:"data"`
}

// Handler receives events. It runs on the publisher's goroutine and must not
// block for long.
type Handler func(Event)

// Bus is an explicit subscriber list.
type Bus struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[uint64]Handler
	now      func() time.Time
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[uint64]Handler),
		now:      time.Now,
	}
}

// Subscribe registers fn and returns a function that removes it. Calling
// the returned function more than once is safe.
func (b *Bus) Subscribe(fn Handler) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.handlers, id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers ev to every current subscriber. A zero Timestamp is
// filled in.
func (b *Bus) Publish(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = b.now()
	}

	b.mu.RLock()
	ids := make([]uint64, 0, len(b.handlers))
	for id := range b.handlers {
		ids = append(ids, id)
	}
	handlers := make([]Handler, 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		handlers = append(handlers, b.handlers[id])
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ev)
	}
}

// Len returns the number of subscribers.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}
