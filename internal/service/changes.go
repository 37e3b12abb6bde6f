package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/EPFL-Life/life-sub001/internal/changefeed"
	"github.com/EPFL-Life/life-sub001/internal/model"
)

type changeNotifier struct {
	publisher changefeed.Publisher
}

func newChangeNotifier(publisher changefeed.Publisher) changeNotifier {
	if publisher == nil {
		publisher = changefeed.NopPublisher{}
	}

	return changeNotifier{publisher: publisher}
}

// publish announces a stored mutation. Failures are logged; the write already happened.
func (n changeNotifier) publish(ctx context.Context, collection model.Collection, action model.ChangeAction, id string) {
	change := model.Change{
		Collection: collection,
		Action:     action,
		ID:         id,
		At:         time.Now().UTC(),
	}

	if err := n.publisher.Publish(ctx, change); err != nil {
		slog.Warn("failed to publish change",
			slog.String("collection", string(collection)),
			slog.String("action", string(action)),
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
	}
}

// keyedMutex serialises work per key and forgets keys nobody holds.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()

	return func() {
		m.Unlock()

		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
