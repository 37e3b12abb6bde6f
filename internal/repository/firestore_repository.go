package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/EPFL-Life/life-sub001/internal/mapper"
	"github.com/EPFL-Life/life-sub001/internal/model"
)

// NewFirestoreClient connects to Firestore. An empty credentialsFile uses
// application default credentials, or the emulator when FIRESTORE_EMULATOR_HOST is set.
func NewFirestoreClient(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	return client, nil
}

// FirestoreRepository maps a Firestore collection onto the repository contract.
// Existence checks rely on server-side preconditions.
type FirestoreRepository[T any] struct {
	codec  codec[T]
	client *firestore.Client
	col    *firestore.CollectionRef
}

// NewEventRepositoryFirestore creates an EventRepository backed by the "events" collection.
func NewEventRepositoryFirestore(client *firestore.Client) EventRepository {
	return newFirestoreRepository(eventCodec, client)
}

// NewAssociationRepositoryFirestore creates an AssociationRepository backed by the "associations" collection.
func NewAssociationRepositoryFirestore(client *firestore.Client) AssociationRepository {
	return newFirestoreRepository(associationCodec, client)
}

// NewUserRepositoryFirestore creates a UserRepository backed by the "users" collection.
func NewUserRepositoryFirestore(client *firestore.Client) UserRepository {
	return newFirestoreRepository(userCodec, client)
}

func newFirestoreRepository[T any](c codec[T], client *firestore.Client) *FirestoreRepository[T] {
	return &FirestoreRepository[T]{
		codec:  c,
		client: client,
		col:    client.Collection(string(c.collection)),
	}
}

// NewUID returns an id generated by the Firestore client.
func (r *FirestoreRepository[T]) NewUID(_ context.Context) string {
	return r.col.NewDoc().ID
}

// GetAll returns every parseable document of the collection.
func (r *FirestoreRepository[T]) GetAll(ctx context.Context) ([]T, error) {
	docs, err := r.col.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.codec.collection, err)
	}

	return r.decodeAll(docs), nil
}

// GetByID returns the document stored under id.
func (r *FirestoreRepository[T]) GetByID(ctx context.Context, id string) (T, error) {
	var zero T

	ref := r.col.Doc(id)

	var (
		snap *firestore.DocumentSnapshot
		err  error
	)
	if tx, ok := firestoreTx(ctx); ok {
		snap, err = tx.Get(ref)
	} else {
		snap, err = ref.Get(ctx)
	}

	if status.Code(err) == codes.NotFound {
		return zero, r.codec.notFound(id)
	}

	if err != nil {
		return zero, fmt.Errorf("failed to get %s %q: %w", r.codec.collection, id, err)
	}

	return r.codec.decode(mapper.Document{ID: snap.Ref.ID, Fields: snap.Data()})
}

// Create writes a new document; Firestore rejects it if the id exists.
func (r *FirestoreRepository[T]) Create(ctx context.Context, item T) error {
	id, err := r.codec.createID(&item)
	if err != nil {
		return err
	}

	_, err = r.col.Doc(id).Create(ctx, r.codec.encode(&item))
	if status.Code(err) == codes.AlreadyExists {
		return r.codec.duplicate(id)
	}

	if err != nil {
		return fmt.Errorf("failed to create %s %q: %w", r.codec.collection, id, err)
	}

	return nil
}

// Update replaces the whole document inside a transaction that first checks it exists.
// It joins the transaction carried by ctx when there is one.
func (r *FirestoreRepository[T]) Update(ctx context.Context, id string, item T) error {
	if err := r.codec.resolveID(id, &item); err != nil {
		return err
	}

	ref := r.col.Doc(id)
	fields := r.codec.encode(&item)

	replace := func(tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			if status.Code(err) == codes.NotFound {
				return r.codec.notFound(id)
			}

			return err
		}

		return tx.Set(ref, fields)
	}

	var err error
	if tx, ok := firestoreTx(ctx); ok {
		err = replace(tx)
	} else {
		err = r.client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
			return replace(tx)
		})
	}

	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return err
		}

		return fmt.Errorf("failed to update %s %q: %w", r.codec.collection, id, err)
	}

	return nil
}

// Delete removes the document with an exists precondition.
func (r *FirestoreRepository[T]) Delete(ctx context.Context, id string) error {
	_, err := r.col.Doc(id).Delete(ctx, firestore.Exists)
	if status.Code(err) == codes.NotFound {
		return r.codec.notFound(id)
	}

	if err != nil {
		return fmt.Errorf("failed to delete %s %q: %w", r.codec.collection, id, err)
	}

	return nil
}

// ListenAll follows the collection snapshots on a separate goroutine.
func (r *FirestoreRepository[T]) ListenAll(ctx context.Context, fn func([]T)) (Unsubscribe, error) {
	ctx, cancel := context.WithCancel(ctx)
	it := r.col.Snapshots(ctx)

	go func() {
		defer it.Stop()

		for {
			snap, err := it.Next()
			if err != nil {
				if ctx.Err() == nil && !errors.Is(err, iterator.Done) && status.Code(err) != codes.Canceled {
					slog.Error("snapshot listener stopped",
						slog.String("collection", string(r.codec.collection)),
						slog.String("error", err.Error()),
					)
				}

				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				slog.Error("failed to read snapshot",
					slog.String("collection", string(r.codec.collection)),
					slog.String("error", err.Error()),
				)

				continue
			}

			fn(r.decodeAll(docs))
		}
	}()

	return Unsubscribe(cancel), nil
}

func (r *FirestoreRepository[T]) decodeAll(docs []*firestore.DocumentSnapshot) []T {
	items := make([]T, 0, len(docs))

	for _, doc := range docs {
		item, err := r.codec.decode(mapper.Document{ID: doc.Ref.ID, Fields: doc.Data()})
		if err != nil {
			slog.Warn("dropping unparseable document",
				slog.String("collection", string(r.codec.collection)),
				slog.String("id", doc.Ref.ID),
				slog.String("error", err.Error()),
			)

			continue
		}

		items = append(items, item)
	}

	return items
}

var (
	_ EventRepository       = (*FirestoreRepository[model.Event])(nil)
	_ AssociationRepository = (*FirestoreRepository[model.Association])(nil)
	_ UserRepository        = (*FirestoreRepository[model.User])(nil)
)
