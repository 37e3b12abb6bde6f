// Package service provides business logic layer implementations.
package service

import (
	"context"

	"github.com/EPFL-Life/life-sub001/internal/model"
)

// EventService defines business logic methods for event management.
type EventService interface {
	List(ctx context.Context) ([]model.Event, error)
	Get(ctx context.Context, id string) (model.Event, error)
	Create(ctx context.Context, event model.Event) (model.Event, error)
	Update(ctx context.Context, id string, event model.Event) (model.Event, error)
	Delete(ctx context.Context, id string) error
	ListByAssociation(ctx context.Context, associationID string) ([]model.Event, error)
	ListByTag(ctx context.Context, tag string) ([]model.Event, error)
}

// AssociationService defines business logic methods for association management.
type AssociationService interface {
	List(ctx context.Context) ([]model.Association, error)
	Get(ctx context.Context, id string) (model.Association, error)
	Create(ctx context.Context, association model.Association) (model.Association, error)
	Update(ctx context.Context, id string, association model.Association) (model.Association, error)
	Delete(ctx context.Context, id string) error
	Events(ctx context.Context, associationID string) ([]model.Event, error)
}

// UserService defines business logic methods for user accounts and their relations.
type UserService interface {
	// SignIn returns the user with the given id, creating it on first sign-in.
	SignIn(ctx context.Context, id, name string) (model.User, error)
	Get(ctx context.Context, id string) (model.User, error)
	PublicProfile(ctx context.Context, id string) (model.PublicProfile, error)
	Follow(ctx context.Context, userID, targetID string) (model.User, error)
	Unfollow(ctx context.Context, userID, targetID string) (model.User, error)
	Subscribe(ctx context.Context, userID, associationID string) (model.User, error)
	Unsubscribe(ctx context.Context, userID, associationID string) (model.User, error)
	Enroll(ctx context.Context, userID, eventID string) (model.User, error)
	Unenroll(ctx context.Context, userID, eventID string) (model.User, error)
	UpdateSettings(ctx context.Context, userID string, settings model.UserSettings) (model.User, error)
	SetRole(ctx context.Context, userID string, role model.Role) (model.User, error)
}

// FeedService defines read models assembled from several collections.
type FeedService interface {
	// HomeFeed returns the events of the associations the user subscribes to.
	HomeFeed(ctx context.Context, userID string) ([]model.Event, error)
	// Calendar returns the events the user is enrolled in. Deleted events are skipped.
	Calendar(ctx context.Context, userID string) ([]model.Event, error)
}
