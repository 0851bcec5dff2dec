// Package live provides an observable value: the current state plus a stream
// of changes delivered to any number of subscribers.
//
// Delivery is conflated. A subscriber always receives the latest value but may
// skip intermediate ones if it reads slower than Set is called. Set never blocks
// on a subscriber.
package live

import (
	"context"
	"sync"
)

// Value holds a value of type T and broadcasts every change
type Value[T any] struct {
	mu   sync.Mutex
	v    T
	subs map[chan T]struct{}
}

// NewValue creates a Value holding initial
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{
		v:    initial,
		subs: make(map[chan T]struct{}),
	}
}

// Get returns the current value
func (l *Value[T]) Get() T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.v
}

// Set stores v and publishes it to all subscribers
func (l *Value[T]) Set(v T) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.v = v
	for ch := range l.subs {
		offer(ch, v)
	}
}

// Subscribe returns a channel that immediately yields the current value and then
// every later one. The channel is closed once ctx is done.
func (l *Value[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)

	l.mu.Lock()
	ch <- l.v
	l.subs[ch] = struct{}{}
	l.mu.Unlock()

	go func() {
		<-ctx.Done()
		l.mu.Lock()
		delete(l.subs, ch)
		close(ch)
		l.mu.Unlock()
	}()

	return ch
}

// Subscribers returns the number of active subscriptions
func (l *Value[T]) Subscribers() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.subs)
}

// offer replaces any unread value in ch with v. Callers hold the lock, so
// nothing else sends on ch concurrently.
func offer[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}
