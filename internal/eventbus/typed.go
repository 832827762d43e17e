package eventbus

import "sync"

// TypedBus is a fan-out bus carrying a single event type, used where the
// subscriber set shares one payload (for example a customer's notification
// inbox). Same delivery semantics as Bus: non-blocking, best-effort.
type TypedBus[T any] struct {
	mu     sync.RWMutex
	subs   map[<-chan T]chan T
	closed bool
}

// NewTyped returns an open TypedBus with no subscribers.
func NewTyped[T any]() *TypedBus[T] {
	return &TypedBus[T]{subs: make(map[<-chan T]chan T)}
}

// Publish offers the event to every subscriber with buffer room.
func (b *TypedBus[T]) Publish(e T) {
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
func (b *TypedBus[T]) Subscribe() <-chan T {
	ch := make(chan T, subscriberBuffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.subs[ch] = ch
	return ch
}

// Unsubscribe drops the subscription and closes its channel.
func (b *TypedBus[T]) Unsubscribe(sub <-chan T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, ok := b.subs[sub]
	if !ok {
		return
	}
	delete(b.subs, sub)
	close(ch)
}

// Close closes every subscriber channel and marks the bus closed.
func (b *TypedBus[T]) Close() {
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
