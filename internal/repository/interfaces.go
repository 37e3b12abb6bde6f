// Package repository provides data access interfaces and implementations.
//
// Every collection has the same contract, Repository, with three backing
// stores: an in-memory local store, Cloud Firestore and PostgreSQL.
package repository

import (
	"context"

	"github.com/EPFL-Life/life-sub001/internal/model"
)

// Unsubscribe releases a subscription created by ListenAll. It is safe to call more than once.
type Unsubscribe func()

// Repository defines the data access contract shared by every collection.
type Repository[T any] interface {
	// NewUID returns an identifier not used by any stored record.
	NewUID(ctx context.Context) string
	// GetAll returns the current records.
	GetAll(ctx context.Context) ([]T, error)
	// GetByID returns the record with the given id or an error wrapping model.ErrNotFound.
	GetByID(ctx context.Context, id string) (T, error)
	// Create stores a new record. It fails with model.ErrDuplicateID if the id is taken.
	Create(ctx context.Context, item T) error
	// Update replaces the whole record stored under id. It fails with model.ErrNotFound if absent.
	Update(ctx context.Context, id string, item T) error
	// Delete removes the record stored under id. It fails with model.ErrNotFound if absent.
	Delete(ctx context.Context, id string) error
	// ListenAll calls fn with the current snapshot, then again after every change,
	// until the returned Unsubscribe is called or ctx is done.
	ListenAll(ctx context.Context, fn func([]T)) (Unsubscribe, error)
}

// EventRepository defines methods for event data access.
type EventRepository interface {
	Repository[model.Event]
}

// AssociationRepository defines methods for association data access.
type AssociationRepository interface {
	Repository[model.Association]
}

// UserRepository defines methods for user data access.
type UserRepository interface {
	Repository[model.User]
}

// TransactionManager defines methods for database transaction management.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
