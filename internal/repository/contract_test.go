package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EPFL-Life/life-sub001/internal/model"
)

func sampleEvent(id string) model.Event {
	return model.Event{
		ID:            id,
		Title:         "Event " + id,
		Description:   "Description of " + id,
		Location:      model.Location{Latitude: 46.52, Longitude: 6.57, Name: "Rolex Learning Center"},
		Time:          "18:00",
		AssociationID: "agepoly",
		Tags:          model.NewTags("party", "music"),
		Price:         10,
	}
}

func sampleAssociation(id string) model.Association {
	picture := "https://example.org/" + id + ".png"

	return model.Association{
		ID:          id,
		Name:        "Association " + id,
		Description: "Description of " + id,
		PictureURL:  &picture,
		Category:    model.CategorySports,
		SocialLinks: map[string]string{"instagram": "https://instagram.com/" + id},
	}
}

func sampleUser(id string) model.User {
	return model.User{
		ID:             id,
		Name:           "User " + id,
		Subscriptions:  []string{"agepoly"},
		EnrolledEvents: []string{"e1", "e2"},
		Following:      []string{},
		Settings:       &model.UserSettings{Language: "en"},
		Role:           model.RoleUser,
	}
}

// contractFixture describes one collection to the shared contract checks.
type contractFixture[T any] struct {
	codec codec[T]
	// sample returns a fully populated record.
	sample func(id string) T
	// modify changes fields of a record, clearing at least one optional field.
	modify func(*T)
	// sparse returns a valid record whose optional lists are nil.
	sparse func(id string) T
}

var eventFixture = contractFixture[model.Event]{
	codec:  eventCodec,
	sample: sampleEvent,
	modify: func(e *model.Event) {
		e.Title = "Renamed"
		e.Tags = model.NewTags()
		e.Price = 0
	},
	sparse: func(id string) model.Event {
		e := sampleEvent(id)
		e.Tags = nil

		return e
	},
}

var associationFixture = contractFixture[model.Association]{
	codec:  associationCodec,
	sample: sampleAssociation,
	modify: func(a *model.Association) {
		a.Name = "Renamed"
		a.PictureURL = nil
		a.SocialLinks = nil
	},
	sparse: func(id string) model.Association {
		return model.Association{ID: id, Name: "Bare " + id, Description: "-", Category: model.CategoryOther}
	},
}

var userFixture = contractFixture[model.User]{
	codec:  userCodec,
	sample: sampleUser,
	modify: func(u *model.User) {
		u.Name = "Renamed"
		u.EnrolledEvents = []string{}
		u.Following = []string{"someone"}
		u.Settings = nil
	},
	sparse: func(id string) model.User {
		return model.User{ID: id, Name: "Bare " + id}
	},
}

// runContract checks the repository contract against any backing store.
// The repository must start empty. Stores that do not keep insertion order
// are compared as sets. Records read back are compared in their stored form,
// which is what the codec's clone produces.
func runContract[T any](t *testing.T, repo Repository[T], fx contractFixture[T], ordered bool) {
	ctx := context.Background()
	stored := fx.codec.clone
	ids := func(items []T) []string {
		out := make([]string, len(items))
		for i := range items {
			out[i] = fx.codec.id(&items[i])
		}

		return out
	}

	t.Run("new uid is distinct", func(t *testing.T) {
		a := repo.NewUID(ctx)
		b := repo.NewUID(ctx)
		assert.NotEmpty(t, a)
		assert.NotEqual(t, a, b)
	})

	id1, id2, id3 := repo.NewUID(ctx), repo.NewUID(ctx), repo.NewUID(ctx)
	r1, r2, r3 := fx.sample(id1), fx.sample(id2), fx.sample(id3)

	t.Run("create then get", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, r1))

		got, err := repo.GetByID(ctx, id1)
		require.NoError(t, err)
		assert.Equal(t, stored(r1), got)

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("create keeps insertion order", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, r2))
		require.NoError(t, repo.Create(ctx, r3))

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)

		want := []T{stored(r1), stored(r2), stored(r3)}
		if ordered {
			assert.Equal(t, want, all)
		} else {
			assert.ElementsMatch(t, want, all)
		}
	})

	t.Run("create duplicate fails and leaves store unchanged", func(t *testing.T) {
		dup := fx.sample(id1)
		fx.modify(&dup)

		err := repo.Create(ctx, dup)
		require.ErrorIs(t, err, model.ErrDuplicateID)

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)

		got, err := repo.GetByID(ctx, id1)
		require.NoError(t, err)
		assert.Equal(t, stored(r1), got)
	})

	t.Run("create without id fails", func(t *testing.T) {
		err := repo.Create(ctx, fx.sample(""))
		require.ErrorIs(t, err, model.ErrMissingID)
	})

	t.Run("update absent fails", func(t *testing.T) {
		missing := repo.NewUID(ctx)

		err := repo.Update(ctx, missing, fx.sample(missing))
		require.ErrorIs(t, err, model.ErrNotFound)

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("update replaces the whole record", func(t *testing.T) {
		updated := fx.sample(id2)
		fx.modify(&updated)

		require.NoError(t, repo.Update(ctx, id2, updated))

		got, err := repo.GetByID(ctx, id2)
		require.NoError(t, err)
		assert.Equal(t, stored(updated), got)

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)

		if ordered {
			assert.Equal(t, []string{id1, id2, id3}, ids(all))
		} else {
			assert.ElementsMatch(t, []string{id1, id2, id3}, ids(all))
		}
	})

	t.Run("update with mismatching id fails", func(t *testing.T) {
		err := repo.Update(ctx, id2, fx.sample(id3))
		require.ErrorIs(t, err, model.ErrIDMismatch)
	})

	t.Run("nil lists come back empty", func(t *testing.T) {
		id := repo.NewUID(ctx)
		sparse := fx.sparse(id)

		require.NoError(t, repo.Create(ctx, sparse))

		got, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, stored(sparse), got)

		require.NoError(t, repo.Delete(ctx, id))
	})

	t.Run("delete absent fails", func(t *testing.T) {
		err := repo.Delete(ctx, repo.NewUID(ctx))
		require.ErrorIs(t, err, model.ErrNotFound)

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("delete removes the record", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, id1))

		_, err := repo.GetByID(ctx, id1)
		require.ErrorIs(t, err, model.ErrNotFound)

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("listeners see every change", func(t *testing.T) {
		var (
			mu        sync.Mutex
			snapshots [][]T
		)

		unsubscribe, err := repo.ListenAll(ctx, func(items []T) {
			mu.Lock()
			defer mu.Unlock()
			snapshots = append(snapshots, items)
		})
		require.NoError(t, err)
		defer unsubscribe()

		latest := func() []string {
			mu.Lock()
			defer mu.Unlock()

			if len(snapshots) == 0 {
				return nil
			}

			out := ids(snapshots[len(snapshots)-1])
			if !ordered {
				sort.Strings(out)
			}

			return out
		}
		want := func(expected ...string) string {
			if !ordered {
				sort.Strings(expected)
			}

			return fmt.Sprint(expected)
		}

		require.Eventually(t, func() bool { return len(latest()) == 2 }, 5*time.Second, 10*time.Millisecond)

		id4 := repo.NewUID(ctx)
		require.NoError(t, repo.Create(ctx, fx.sample(id4)))
		require.Eventually(t, func() bool { return fmt.Sprint(latest()) == want(id2, id3, id4) },
			5*time.Second, 10*time.Millisecond)

		require.NoError(t, repo.Delete(ctx, id2))
		require.Eventually(t, func() bool { return fmt.Sprint(latest()) == want(id3, id4) },
			5*time.Second, 10*time.Millisecond)
	})
}
