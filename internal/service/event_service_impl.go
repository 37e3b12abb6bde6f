package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/EPFL-Life/life-sub001/internal/changefeed"
	"github.com/EPFL-Life/life-sub001/internal/model"
	"github.com/EPFL-Life/life-sub001/internal/repository"
)

// EventServiceImpl implements EventService on top of the event and association repositories.
type EventServiceImpl struct {
	eventRepo       repository.EventRepository
	associationRepo repository.AssociationRepository
	changes         changeNotifier
}

// NewEventServiceImpl creates a new EventService implementation.
func NewEventServiceImpl(
	eventRepo repository.EventRepository,
	associationRepo repository.AssociationRepository,
	publisher changefeed.Publisher,
) EventService {
	return &EventServiceImpl{
		eventRepo:       eventRepo,
		associationRepo: associationRepo,
		changes:         newChangeNotifier(publisher),
	}
}

// List returns every stored event.
func (s *EventServiceImpl) List(ctx context.Context) ([]model.Event, error) {
	return s.eventRepo.GetAll(ctx)
}

// Get retrieves an event by ID.
func (s *EventServiceImpl) Get(ctx context.Context, id string) (model.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

// Create stores a new event, assigning a fresh id when none is given.
func (s *EventServiceImpl) Create(ctx context.Context, event model.Event) (model.Event, error) {
	if err := s.validate(ctx, &event); err != nil {
		return model.Event{}, err
	}

	if event.ID == "" {
		event.ID = s.eventRepo.NewUID(ctx)
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return model.Event{}, fmt.Errorf("failed to create event: %w", err)
	}

	slog.Info("event created", slog.String("id", event.ID), slog.String("association_id", event.AssociationID))
	s.changes.publish(ctx, model.CollectionEvents, model.ChangeActionCreated, event.ID)

	return event.Clone(), nil
}

// Update replaces the event stored under id.
func (s *EventServiceImpl) Update(ctx context.Context, id string, event model.Event) (model.Event, error) {
	if err := s.validate(ctx, &event); err != nil {
		return model.Event{}, err
	}

	if err := s.eventRepo.Update(ctx, id, event); err != nil {
		return model.Event{}, fmt.Errorf("failed to update event: %w", err)
	}

	event.ID = id
	s.changes.publish(ctx, model.CollectionEvents, model.ChangeActionUpdated, id)

	return event.Clone(), nil
}

// Delete removes the event stored under id.
func (s *EventServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	s.changes.publish(ctx, model.CollectionEvents, model.ChangeActionDeleted, id)

	return nil
}

// ListByAssociation returns the events organised by an association.
func (s *EventServiceImpl) ListByAssociation(ctx context.Context, associationID string) ([]model.Event, error) {
	return s.filter(ctx, func(e *model.Event) bool { return e.AssociationID == associationID })
}

// ListByTag returns the events carrying tag.
func (s *EventServiceImpl) ListByTag(ctx context.Context, tag string) ([]model.Event, error) {
	return s.filter(ctx, func(e *model.Event) bool { return e.Tags.Contains(tag) })
}

func (s *EventServiceImpl) filter(ctx context.Context, keep func(*model.Event) bool) ([]model.Event, error) {
	events, err := s.eventRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.Event, 0, len(events))
	for i := range events {
		if keep(&events[i]) {
			out = append(out, events[i])
		}
	}

	return out, nil
}

func (s *EventServiceImpl) validate(ctx context.Context, event *model.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	event.Tags = model.NewTags(event.Tags...)

	if event.AssociationID == "" {
		return fmt.Errorf("%w: association id is required", model.ErrUnknownReference)
	}

	if _, err := s.associationRepo.GetByID(ctx, event.AssociationID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return fmt.Errorf("%w: association %q", model.ErrUnknownReference, event.AssociationID)
		}

		return err
	}

	return nil
}
