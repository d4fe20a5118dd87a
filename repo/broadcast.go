// ABOUTME: Fan-out broadcaster delivering values to multiple subscribers over buffered channels.
// ABOUTME: Broadcast is non-blocking and drops when a subscriber's buffer is full.
package repo

import "sync"

// Broadcaster fans values out to subscribers. Each subscriber gets its own
// buffered channel; a slow subscriber loses intermediate values rather than
// stalling the board.
type Broadcaster[T any] struct {
	mu          sync.RWMutex
	subscribers []chan T
}

// NewBroadcaster creates a broadcaster with no initial subscribers.
func NewBroadcaster[T any]() *Broadcaster[T] {
	return &Broadcaster[T]{}
}

// Subscribe creates a new buffered channel for receiving broadcast values.
func (b *Broadcaster[T]) Subscribe() chan T {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan T, 64)
	b.subscribers = append(b.subscribers, ch)
	return ch
}

// Unsubscribe removes a channel from the subscriber list and closes it.
func (b *Broadcaster[T]) Unsubscribe(ch chan T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subscribers {
		if sub == ch {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			close(ch)
			return
		}
	}
}

// Broadcast sends a value to all subscribers. Non-blocking: drops if a
// subscriber's buffer is full.
func (b *Broadcaster[T]) Broadcast(v T) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- v:
		default:
			// Drop if subscriber buffer is full
		}
	}
}

// Close closes all subscriber channels.
func (b *Broadcaster[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subscribers {
		close(ch)
	}
	b.subscribers = nil
}
