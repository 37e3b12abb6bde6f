package repository

import (
	"context"
	"slices"
	"strconv"
	"sync"

	"github.com/EPFL-Life/life-sub001/internal/model"
)

// LocalRepository is an in-memory store keeping records in insertion order.
// A single mutex guards every check-then-act sequence.
type LocalRepository[T any] struct {
	codec     codec[T]
	mu        sync.Mutex
	items     []T
	counter   uint64
	version   uint64
	listeners *listenerSet[T]
}

// NewEventRepositoryLocal creates an in-memory EventRepository.
func NewEventRepositoryLocal() EventRepository {
	return newLocalRepository(eventCodec)
}

// NewAssociationRepositoryLocal creates an in-memory AssociationRepository.
func NewAssociationRepositoryLocal() AssociationRepository {
	return newLocalRepository(associationCodec)
}

// NewUserRepositoryLocal creates an in-memory UserRepository.
func NewUserRepositoryLocal() UserRepository {
	return newLocalRepository(userCodec)
}

func newLocalRepository[T any](c codec[T]) *LocalRepository[T] {
	return &LocalRepository[T]{
		codec:     c,
		version:   1,
		listeners: newListenerSet(c.clone),
	}
}

// NewUID returns the next counter value not used as an id.
func (r *LocalRepository[T]) NewUID(_ context.Context) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		r.counter++

		id := strconv.FormatUint(r.counter, 10)
		if r.indexLocked(id) < 0 {
			return id
		}
	}
}

// GetAll returns a copy of every record in insertion order.
func (r *LocalRepository[T]) GetAll(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.snapshotLocked(), nil
}

// GetByID returns a copy of the record stored under id.
func (r *LocalRepository[T]) GetByID(ctx context.Context, id string) (T, error) {
	var zero T

	if err := ctx.Err(); err != nil {
		return zero, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(id)
	if i < 0 {
		return zero, r.codec.notFound(id)
	}

	return r.codec.clone(r.items[i]), nil
}

// Create appends item unless its id is already stored.
func (r *LocalRepository[T]) Create(ctx context.Context, item T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	id, err := r.codec.createID(&item)
	if err != nil {
		return err
	}

	r.mu.Lock()
	if r.indexLocked(id) >= 0 {
		r.mu.Unlock()
		return r.codec.duplicate(id)
	}

	r.items = append(r.items, r.codec.clone(item))
	version, snapshot := r.commitLocked()
	r.mu.Unlock()

	r.listeners.publish(version, snapshot)

	return nil
}

// Update replaces the record stored under id, keeping its position.
func (r *LocalRepository[T]) Update(ctx context.Context, id string, item T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := r.codec.resolveID(id, &item); err != nil {
		return err
	}

	r.mu.Lock()
	i := r.indexLocked(id)
	if i < 0 {
		r.mu.Unlock()
		return r.codec.notFound(id)
	}

	r.items[i] = r.codec.clone(item)
	version, snapshot := r.commitLocked()
	r.mu.Unlock()

	r.listeners.publish(version, snapshot)

	return nil
}

// Delete removes the record stored under id.
func (r *LocalRepository[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	i := r.indexLocked(id)
	if i < 0 {
		r.mu.Unlock()
		return r.codec.notFound(id)
	}

	r.items = slices.Delete(r.items, i, i+1)
	version, snapshot := r.commitLocked()
	r.mu.Unlock()

	r.listeners.publish(version, snapshot)

	return nil
}

// ListenAll registers fn and calls it with the current snapshot before returning.
func (r *LocalRepository[T]) ListenAll(ctx context.Context, fn func([]T)) (Unsubscribe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sub, unsubscribe := r.listeners.add(fn)

	r.mu.Lock()
	version, snapshot := r.version, r.snapshotLocked()
	r.mu.Unlock()

	sub.deliver(version, snapshot)

	context.AfterFunc(ctx, unsubscribe)

	return unsubscribe, nil
}

// Len returns the number of stored records.
func (r *LocalRepository[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.items)
}

// Listeners returns the number of active subscriptions.
func (r *LocalRepository[T]) Listeners() int {
	return r.listeners.len()
}

func (r *LocalRepository[T]) indexLocked(id string) int {
	return slices.IndexFunc(r.items, func(item T) bool {
		return r.codec.id(&item) == id
	})
}

func (r *LocalRepository[T]) snapshotLocked() []T {
	out := make([]T, len(r.items))
	for i, item := range r.items {
		out[i] = r.codec.clone(item)
	}

	return out
}

func (r *LocalRepository[T]) commitLocked() (uint64, []T) {
	r.version++
	return r.version, r.snapshotLocked()
}

var (
	_ EventRepository       = (*LocalRepository[model.Event])(nil)
	_ AssociationRepository = (*LocalRepository[model.Association])(nil)
	_ UserRepository        = (*LocalRepository[model.User])(nil)
)
