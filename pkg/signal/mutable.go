package signal

import (
	"context"
	"sync"
)

// Source is anything a watcher can subscribe to for a stream of values.
// The returned channel delivers the current value first, then the latest
// value after each change, until ctx is cancelled.
type Source[T any] interface {
	Watch(ctx context.Context) <-chan T
}

// Mutable is a reactive cell holding a single value of type T.
//
// Watchers always observe the most recent value; rapid successive Sets may
// coalesce so that only the newest value is delivered.
type Mutable[T any] struct {
	mu      sync.Mutex
	value   T
	eq      func(a, b T) bool
	subs    map[uint64]chan T
	nextSub uint64
}

// New returns a Mutable holding initial.
func New[T any](initial T) *Mutable[T] {
	return &Mutable[T]{value: initial}
}

// NewEq returns a Mutable for a comparable type. SetNeq on the result
// publishes only when the new value differs from the current one.
func NewEq[T comparable](initial T) *Mutable[T] {
	m := New(initial)
	m.eq = func(a, b T) bool { return a == b }
	return m
}

// Get returns the current value.
func (m *Mutable[T]) Get() T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value
}

// Set stores v and publishes it to all watchers.
func (m *Mutable[T]) Set(v T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = v
	m.publishLocked(v)
}

// SetNeq stores and publishes v only if it differs from the current value.
// On a Mutable constructed with New (no equality), SetNeq behaves like Set.
func (m *Mutable[T]) SetNeq(v T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.eq != nil && m.eq(m.value, v) {
		return
	}
	m.value = v
	m.publishLocked(v)
}

// Watch subscribes to the cell. The channel is seeded with the current
// value. The subscription is removed when ctx is cancelled.
func (m *Mutable[T]) Watch(ctx context.Context) <-chan T {
	ch := make(chan T, 1)
	m.mu.Lock()
	if m.subs == nil {
		m.subs = make(map[uint64]chan T)
	}
	id := m.nextSub
	m.nextSub++
	m.subs[id] = ch
	ch <- m.value
	m.mu.Unlock()
	go func() {
		<-ctx.Done()
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}()
	return ch
}

// publishLocked delivers v to every subscriber channel, replacing any
// undelivered previous value. All sends happen under m.mu, so the
// drain-then-send below cannot race with another publisher.
func (m *Mutable[T]) publishLocked(v T) {
	for _, ch := range m.subs {
		select {
		case ch <- v:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- v
		}
	}
}

// ForEach invokes f for the current value and every subsequent published
// value until ctx is cancelled.
func ForEach[T any](ctx context.Context, src Source[T], f func(T)) {
	ch := src.Watch(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case v, ok := <-ch:
			if !ok {
				return
			}
			f(v)
		}
	}
}

// WaitFor blocks until src publishes want, returning true, or until ctx is
// cancelled, returning false.
func WaitFor[T comparable](ctx context.Context, src Source[T], want T) bool {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ch := src.Watch(ctx)
	for {
		select {
		case <-ctx.Done():
			return false
		case v, ok := <-ch:
			if !ok {
				return false
			}
			if v == want {
				return true
			}
		}
	}
}
