package service

import (
	"context"
	"fmt"

	"github.com/EPFL-Life/life-sub001/internal/changefeed"
	"github.com/EPFL-Life/life-sub001/internal/model"
	"github.com/EPFL-Life/life-sub001/internal/repository"
)

// AssociationServiceImpl implements AssociationService.
type AssociationServiceImpl struct {
	associationRepo repository.AssociationRepository
	eventRepo       repository.EventRepository
	changes         changeNotifier
}

// NewAssociationServiceImpl creates a new AssociationService implementation.
func NewAssociationServiceImpl(
	associationRepo repository.AssociationRepository,
	eventRepo repository.EventRepository,
	publisher changefeed.Publisher,
) AssociationService {
	return &AssociationServiceImpl{
		associationRepo: associationRepo,
		eventRepo:       eventRepo,
		changes:         newChangeNotifier(publisher),
	}
}

// List returns every association.
func (s *AssociationServiceImpl) List(ctx context.Context) ([]model.Association, error) {
	return s.associationRepo.GetAll(ctx)
}

// Get retrieves an association by ID.
func (s *AssociationServiceImpl) Get(ctx context.Context, id string) (model.Association, error) {
	return s.associationRepo.GetByID(ctx, id)
}

// Create stores a new association, assigning a fresh id when none is given.
func (s *AssociationServiceImpl) Create(ctx context.Context, association model.Association) (model.Association, error) {
	if err := association.Validate(); err != nil {
		return model.Association{}, err
	}

	if association.ID == "" {
		association.ID = s.associationRepo.NewUID(ctx)
	}

	if err := s.associationRepo.Create(ctx, association); err != nil {
		return model.Association{}, fmt.Errorf("failed to create association: %w", err)
	}

	s.changes.publish(ctx, model.CollectionAssociations, model.ChangeActionCreated, association.ID)

	return association, nil
}

// Update replaces the association stored under id.
func (s *AssociationServiceImpl) Update(ctx context.Context, id string, association model.Association) (model.Association, error) {
	if err := association.Validate(); err != nil {
		return model.Association{}, err
	}

	if err := s.associationRepo.Update(ctx, id, association); err != nil {
		return model.Association{}, fmt.Errorf("failed to update association: %w", err)
	}

	association.ID = id
	s.changes.publish(ctx, model.CollectionAssociations, model.ChangeActionUpdated, id)

	return association, nil
}

// Delete removes the association. Its events are kept and keep pointing at the id.
func (s *AssociationServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.associationRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete association: %w", err)
	}

	s.changes.publish(ctx, model.CollectionAssociations, model.ChangeActionDeleted, id)

	return nil
}

// Events returns the events of an existing association.
func (s *AssociationServiceImpl) Events(ctx context.Context, associationID string) ([]model.Event, error) {
	if _, err := s.associationRepo.GetByID(ctx, associationID); err != nil {
		return nil, err
	}

	events, err := s.eventRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.Event, 0)
	for _, e := range events {
		if e.AssociationID == associationID {
			out = append(out, e)
		}
	}

	return out, nil
}
