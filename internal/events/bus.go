// Package events fans out site update notifications: in-process subscribers,
// other server instances (PostgreSQL LISTEN/NOTIFY) and browsers (websocket).
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Manikan-10/Party-Planners-Client/internal/logger"
)

// Type names an update notification.
type Type string

const (
	// GalleryUpdated is emitted after every successful write of the cached
	// website content, which carries the gallery lists.
	GalleryUpdated Type = "galleryUpdated"
)

// Event is one notification.
type Event struct {
	Type   Type      `json:"type"`
	Origin string    `json:"origin"`
	At     time.Time `json:"at"`
}

// Forwarder ships locally published events to another process.
type Forwarder interface {
	Forward(ctx context.Context, e Event) error
}

// Bus delivers events to subscribers without blocking the publisher.
// A subscriber whose buffer is full misses the event.
type Bus struct {
	origin string

	mu         sync.RWMutex
	subs       map[int]chan Event
	next       int
	forwarders []Forwarder
}

// NewBus creates a Bus with a fresh origin id.
func NewBus() *Bus {
	return &Bus{
		origin: uuid.NewString(),
		subs:   make(map[int]chan Event),
	}
}

// Origin identifies events published by this process.
func (b *Bus) Origin() string {
	return b.origin
}

// AddForwarder registers f to receive every locally published event.
func (b *Bus) AddForwarder(f Forwarder) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.forwarders = append(b.forwarders, f)
}

// Publish emits an event of type t from this process.
func (b *Bus) Publish(ctx context.Context, t Type) {
	e := Event{Type: t, Origin: b.origin, At: time.Now().UTC()}
	b.Deliver(e)

	b.mu.RLock()
	fwd := append([]Forwarder(nil), b.forwarders...)
	b.mu.RUnlock()

	for _, f := range fwd {
		if err := f.Forward(ctx, e); err != nil {
			logger.Warnf("events: forward %s: %v", e.Type, err)
		}
	}
}

// Deliver hands e to local subscribers only.
func (b *Bus) Deliver(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for id, ch := range b.subs {
		select {
		case ch <- e:
		default:
			logger.Debugf("events: subscriber %d is full, dropping %s", id, e.Type)
		}
	}
}

// Subscribers returns the number of active subscriptions.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Subscribe returns a channel of events and a function that cancels the
// subscription and closes the channel.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}
