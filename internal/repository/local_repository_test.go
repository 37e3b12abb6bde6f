package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EPFL-Life/life-sub001/internal/model"
)

func TestLocalEventRepository_Contract(t *testing.T) {
	runContract(t, NewEventRepositoryLocal(), eventFixture, true)
}

func TestLocalAssociationRepository_Contract(t *testing.T) {
	runContract(t, NewAssociationRepositoryLocal(), associationFixture, true)
}

func TestLocalUserRepository_Contract(t *testing.T) {
	runContract(t, NewUserRepositoryLocal(), userFixture, true)
}

func TestLocalRepository_NewUIDSkipsUsedIDs(t *testing.T) {
	ctx := context.Background()
	repo := newLocalRepository(eventCodec)

	require.NoError(t, repo.Create(ctx, sampleEvent("1")))
	require.NoError(t, repo.Create(ctx, sampleEvent("2")))

	assert.Equal(t, "3", repo.NewUID(ctx))
	assert.Equal(t, "4", repo.NewUID(ctx))
}

func TestLocalRepository_ListenerGetsSnapshotImmediately(t *testing.T) {
	ctx := context.Background()
	repo := newLocalRepository(associationCodec)

	require.NoError(t, repo.Create(ctx, model.Association{ID: "a1", Name: "AGEPoly", Category: model.CategoryInstitution}))

	var calls [][]model.Association
	unsubscribe, err := repo.ListenAll(ctx, func(items []model.Association) {
		calls = append(calls, items)
	})
	require.NoError(t, err)

	require.Len(t, calls, 1)
	assert.Equal(t, "a1", calls[0][0].ID)

	require.NoError(t, repo.Update(ctx, "a1", model.Association{Name: "AGEPoly 2", Category: model.CategoryInstitution}))
	require.Len(t, calls, 2)
	assert.Equal(t, "AGEPoly 2", calls[1][0].Name)

	unsubscribe()
	unsubscribe()
	assert.Equal(t, 0, repo.Listeners())

	require.NoError(t, repo.Delete(ctx, "a1"))
	assert.Len(t, calls, 2)
}

func TestLocalRepository_ListenerStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	repo := newLocalRepository(userCodec)

	var calls atomic.Int32
	_, err := repo.ListenAll(ctx, func([]model.User) { calls.Add(1) })
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	cancel()
	require.Eventually(t, func() bool { return repo.Listeners() == 0 }, time.Second, time.Millisecond)

	require.NoError(t, repo.Create(context.Background(), model.User{ID: "u1", Name: "Ada", Role: model.RoleUser}))
	assert.Equal(t, int32(1), calls.Load())
}

func TestLocalRepository_ListenerCannotCorruptStore(t *testing.T) {
	ctx := context.Background()
	repo := newLocalRepository(eventCodec)
	require.NoError(t, repo.Create(ctx, sampleEvent("e1")))

	_, err := repo.ListenAll(ctx, func(events []model.Event) {
		for i := range events {
			events[i].Title = "mutated"
			events[i].Tags[0] = "mutated"
		}
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, sampleEvent("e1"), got)
}

func TestLocalRepository_ConcurrentCreateSameID(t *testing.T) {
	ctx := context.Background()
	repo := newLocalRepository(eventCodec)

	const workers = 32

	var (
		wg        sync.WaitGroup
		successes atomic.Int32
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if err := repo.Create(ctx, sampleEvent("same")); err == nil {
				successes.Add(1)
			} else {
				assert.ErrorIs(t, err, model.ErrDuplicateID)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, 1, repo.Len())
}

func TestLocalRepository_ConcurrentWritesKeepListenersMonotonic(t *testing.T) {
	ctx := context.Background()
	repo := newLocalRepository(eventCodec)

	var (
		mu    sync.Mutex
		sizes []int
	)

	_, err := repo.ListenAll(ctx, func(events []model.Event) {
		mu.Lock()
		sizes = append(sizes, len(events))
		mu.Unlock()
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			assert.NoError(t, repo.Create(ctx, sampleEvent(repo.NewUID(ctx))))
		}()
	}

	wg.Wait()

	mu.Lock()
	defer mu.Unlock()

	for i := 1; i < len(sizes); i++ {
		assert.Greater(t, sizes[i], sizes[i-1])
	}

	assert.Equal(t, 50, sizes[len(sizes)-1])
}

func TestLocalRepository_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := NewEventRepositoryLocal()
	require.ErrorIs(t, repo.Create(ctx, sampleEvent("e1")), context.Canceled)

	_, err := repo.GetAll(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
