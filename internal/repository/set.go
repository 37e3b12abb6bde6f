package repository

import (
	"cloud.google.com/go/firestore"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/EPFL-Life/life-sub001/internal/model"
)

// Set bundles the repositories of every collection.
type Set struct {
	Events       EventRepository
	Associations AssociationRepository
	Users        UserRepository
	Tx           TransactionManager
}

// NewLocalSet returns in-memory repositories.
func NewLocalSet() *Set {
	return &Set{
		Events:       NewEventRepositoryLocal(),
		Associations: NewAssociationRepositoryLocal(),
		Users:        NewUserRepositoryLocal(),
		Tx:           NewNoopTransactionManager(),
	}
}

// NewFirestoreSet returns repositories backed by Firestore collections.
func NewFirestoreSet(client *firestore.Client) *Set {
	return &Set{
		Events:       NewEventRepositoryFirestore(client),
		Associations: NewAssociationRepositoryFirestore(client),
		Users:        NewUserRepositoryFirestore(client),
		Tx:           NewFirestoreTransactionManager(client),
	}
}

// NewPostgresSet returns repositories backed by PostgreSQL document tables.
func NewPostgresSet(pool *pgxpool.Pool) *Set {
	return &Set{
		Events:       NewEventRepositoryPostgres(pool),
		Associations: NewAssociationRepositoryPostgres(pool),
		Users:        NewUserRepositoryPostgres(pool),
		Tx:           NewTransactionManagerImpl(pool),
	}
}

// Instrumented returns a copy of s whose repositories record metrics.
func (s *Set) Instrumented() *Set {
	return &Set{
		Events:       Instrument[model.Event](s.Events, model.CollectionEvents),
		Associations: Instrument[model.Association](s.Associations, model.CollectionAssociations),
		Users:        Instrument[model.User](s.Users, model.CollectionUsers),
		Tx:           s.Tx,
	}
}
