package service

import (
	"context"
	"errors"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/EPFL-Life/life-sub001/internal/model"
	"github.com/EPFL-Life/life-sub001/internal/repository"
)

const feedConcurrency = 8

// FeedServiceImpl implements FeedService.
type FeedServiceImpl struct {
	userRepo        repository.UserRepository
	associationRepo repository.AssociationRepository
	eventRepo       repository.EventRepository
}

// NewFeedServiceImpl creates a new FeedService implementation.
func NewFeedServiceImpl(
	userRepo repository.UserRepository,
	associationRepo repository.AssociationRepository,
	eventRepo repository.EventRepository,
) FeedService {
	return &FeedServiceImpl{
		userRepo:        userRepo,
		associationRepo: associationRepo,
		eventRepo:       eventRepo,
	}
}

// HomeFeed returns events of subscribed associations that still exist, in repository order.
func (s *FeedServiceImpl) HomeFeed(ctx context.Context, userID string) ([]model.Event, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(user.Subscriptions) == 0 {
		return []model.Event{}, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(feedConcurrency)

	var events []model.Event
	g.Go(func() error {
		var err error
		events, err = s.eventRepo.GetAll(gctx)

		return err
	})

	live := make([]bool, len(user.Subscriptions))
	for i, id := range user.Subscriptions {
		g.Go(func() error {
			_, err := s.associationRepo.GetByID(gctx, id)
			switch {
			case err == nil:
				live[i] = true
			case errors.Is(err, model.ErrNotFound):
			default:
				return err
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	subscribed := make(map[string]struct{}, len(live))
	for i, ok := range live {
		if ok {
			subscribed[user.Subscriptions[i]] = struct{}{}
		}
	}

	out := make([]model.Event, 0)
	for _, e := range events {
		if _, ok := subscribed[e.AssociationID]; ok {
			out = append(out, e)
		}
	}

	return out, nil
}

// Calendar returns the enrolled events in enrollment order.
func (s *FeedServiceImpl) Calendar(ctx context.Context, userID string) ([]model.Event, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(feedConcurrency)

	slots := make([]*model.Event, len(user.EnrolledEvents))
	for i, id := range user.EnrolledEvents {
		g.Go(func() error {
			event, err := s.eventRepo.GetByID(gctx, id)
			switch {
			case err == nil:
				slots[i] = &event
			case errors.Is(err, model.ErrNotFound):
			default:
				return err
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	slots = slices.DeleteFunc(slots, func(e *model.Event) bool { return e == nil })

	out := make([]model.Event, len(slots))
	for i, e := range slots {
		out[i] = *e
	}

	return out, nil
}
