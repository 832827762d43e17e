// Package eventbus provides the in-process pub/sub channel the dispatcher
// publishes its lifecycle events on (order scheduled, order delivered,
// traffic changes). Delivery is best-effort: a subscriber that stops
// draining loses events rather than stalling the assignment loop.
package eventbus

import "sync"

// Event is any payload published on the bus. Subscribers type-switch on the
// structs in core/events.
type Event any

// EventBus is the publishing side plus subscription management.
type EventBus interface {
	Publish(Event)
	Subscribe() <-chan Event
	Unsubscribe(<-chan Event)
	Close()
}

// subscriberBuffer is the per-subscriber channel capacity. Bursts of
// assignments beyond it are dropped for subscribers that are behind.
const subscriberBuffer = 16

// Bus is the fan-out EventBus implementation. Use New; the zero value has no
// subscriber table.
type Bus struct {
	mu     sync.RWMutex
	subs   map[<-chan Event]chan Event
	closed bool
}

// New returns an open Bus with no subscribers.
func New() *Bus {
	return &Bus{subs: make(map[<-chan Event]chan Event)}
}

// Publish offers the event to every subscriber with buffer room. It never
// blocks and is a no-op on a closed bus.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe returns a channel carrying future events. On a closed bus the
// returned channel is already closed.
func (b *Bus) Subscribe() <-chan Event {
	ch := make(chan Event, subscriberBuffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.subs[ch] = ch
	return ch
}

// Unsubscribe drops the subscription and closes its channel. Channels the
// bus does not know are ignored.
func (b *Bus) Unsubscribe(sub <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, ok := b.subs[sub]
	if !ok {
		return
	}
	delete(b.subs, sub)
	close(ch)
}

// Close closes every subscriber channel and marks the bus closed. Repeated
// calls are no-ops.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}
