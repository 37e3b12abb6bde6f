package repository

import (
	"sync"
	"sync/atomic"
)

// subscriber delivers versioned snapshots to one callback, never going back in time.
type subscriber[T any] struct {
	mu     sync.Mutex
	fn     func([]T)
	last   uint64
	closed atomic.Bool
}

func (s *subscriber[T]) deliver(version uint64, items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() || version <= s.last {
		return
	}

	s.last = version
	s.fn(items)
}

// listenerSet is the registry of snapshot callbacks of a local store.
// Callbacks run synchronously on the goroutine that committed the change and
// must not write to the same repository.
type listenerSet[T any] struct {
	mu    sync.Mutex
	next  uint64
	subs  map[uint64]*subscriber[T]
	clone func(T) T
}

func newListenerSet[T any](clone func(T) T) *listenerSet[T] {
	return &listenerSet[T]{
		subs:  make(map[uint64]*subscriber[T]),
		clone: clone,
	}
}

func (l *listenerSet[T]) add(fn func([]T)) (*subscriber[T], Unsubscribe) {
	sub := &subscriber[T]{fn: fn}

	l.mu.Lock()
	key := l.next
	l.next++
	l.subs[key] = sub
	l.mu.Unlock()

	var once sync.Once

	return sub, func() {
		once.Do(func() {
			sub.closed.Store(true)

			l.mu.Lock()
			delete(l.subs, key)
			l.mu.Unlock()
		})
	}
}

func (l *listenerSet[T]) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.subs)
}

// publish hands every subscriber its own copy of items.
func (l *listenerSet[T]) publish(version uint64, items []T) {
	l.mu.Lock()
	subs := make([]*subscriber[T], 0, len(l.subs))
	for _, s := range l.subs {
		subs = append(subs, s)
	}
	l.mu.Unlock()

	for _, s := range subs {
		s.deliver(version, l.copyOf(items))
	}
}

func (l *listenerSet[T]) copyOf(items []T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = l.clone(item)
	}

	return out
}
