package repository

import (
	"context"
	"errors"
	"time"

	"github.com/EPFL-Life/life-sub001/internal/metrics"
	"github.com/EPFL-Life/life-sub001/internal/model"
)

// instrumented records metrics around every call of the wrapped repository.
type instrumented[T any] struct {
	next       Repository[T]
	collection string
}

// Instrument wraps repo so that every call is counted and timed.
func Instrument[T any](repo Repository[T], collection model.Collection) Repository[T] {
	return &instrumented[T]{next: repo, collection: string(collection)}
}

func (r *instrumented[T]) observe(op string, start time.Time, err error) {
	metrics.RepositoryLatency.WithLabelValues(r.collection, op).Observe(time.Since(start).Seconds())
	metrics.RepositoryOperations.WithLabelValues(r.collection, op, result(err)).Inc()
}

func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, model.ErrNotFound):
		return "not_found"
	case errors.Is(err, model.ErrDuplicateID):
		return "duplicate"
	case errors.Is(err, model.ErrUnparseable):
		return "unparseable"
	default:
		return "error"
	}
}

func (r *instrumented[T]) NewUID(ctx context.Context) string {
	defer r.observe("new_uid", time.Now(), nil)
	return r.next.NewUID(ctx)
}

func (r *instrumented[T]) GetAll(ctx context.Context) (items []T, err error) {
	defer func(start time.Time) { r.observe("get_all", start, err) }(time.Now())
	return r.next.GetAll(ctx)
}

func (r *instrumented[T]) GetByID(ctx context.Context, id string) (item T, err error) {
	defer func(start time.Time) { r.observe("get", start, err) }(time.Now())
	return r.next.GetByID(ctx, id)
}

func (r *instrumented[T]) Create(ctx context.Context, item T) (err error) {
	defer func(start time.Time) { r.observe("create", start, err) }(time.Now())
	return r.next.Create(ctx, item)
}

func (r *instrumented[T]) Update(ctx context.Context, id string, item T) (err error) {
	defer func(start time.Time) { r.observe("update", start, err) }(time.Now())
	return r.next.Update(ctx, id, item)
}

func (r *instrumented[T]) Delete(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { r.observe("delete", start, err) }(time.Now())
	return r.next.Delete(ctx, id)
}

func (r *instrumented[T]) ListenAll(ctx context.Context, fn func([]T)) (unsubscribe Unsubscribe, err error) {
	defer func(start time.Time) { r.observe("listen", start, err) }(time.Now())
	return r.next.ListenAll(ctx, fn)
}
