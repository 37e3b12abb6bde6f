package repository

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EPFL-Life/life-sub001/internal/model"
)

// newEmulatorClient connects to the Firestore emulator with a fresh project id.
func newEmulatorClient(t *testing.T) *firestore.Client {
	t.Helper()

	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	client, err := NewFirestoreClient(context.Background(), "test-"+uuid.NewString()[:8], "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestFirestoreEventRepository_Contract(t *testing.T) {
	runContract(t, NewEventRepositoryFirestore(newEmulatorClient(t)), eventFixture, false)
}

func TestFirestoreAssociationRepository_Contract(t *testing.T) {
	runContract(t, NewAssociationRepositoryFirestore(newEmulatorClient(t)), associationFixture, false)
}

func TestFirestoreUserRepository_Contract(t *testing.T) {
	runContract(t, NewUserRepositoryFirestore(newEmulatorClient(t)), userFixture, false)
}

func TestFirestoreRepository_DropsUnparseableDocuments(t *testing.T) {
	ctx := context.Background()
	client := newEmulatorClient(t)
	repo := NewEventRepositoryFirestore(client)

	require.NoError(t, repo.Create(ctx, sampleEvent("good")))

	_, err := client.Collection("events").Doc("bad").Set(ctx, map[string]any{
		"title": "Test Event",
		"price": int64(-100),
	})
	require.NoError(t, err)

	events, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "good", events[0].ID)

	_, err = repo.GetByID(ctx, "bad")
	require.ErrorIs(t, err, model.ErrUnparseable)
}

func TestFirestoreTransactionManager_ReadModifyWriteIsNotLost(t *testing.T) {
	ctx := context.Background()
	client := newEmulatorClient(t)
	repos := NewFirestoreSet(client)

	require.NoError(t, repos.Users.Create(ctx, model.User{ID: "u1", Name: "Ada"}))

	const writers = 3

	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			err := repos.Tx.WithTransaction(ctx, func(ctx context.Context) error {
				u, err := repos.Users.GetByID(ctx, "u1")
				if err != nil {
					return err
				}

				u.Following = append(u.Following, fmt.Sprintf("u%d", i+2))

				return repos.Users.Update(ctx, "u1", u)
			})
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	u, err := repos.Users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, u.Following, writers)
}

func TestFirestoreTransactionManager_NotFoundInsideTransaction(t *testing.T) {
	ctx := context.Background()
	repos := NewFirestoreSet(newEmulatorClient(t))

	err := repos.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		_, err := repos.Users.GetByID(ctx, "ghost")
		return err
	})
	require.ErrorIs(t, err, model.ErrNotFound)
}
