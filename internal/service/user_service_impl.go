package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/EPFL-Life/life-sub001/internal/changefeed"
	"github.com/EPFL-Life/life-sub001/internal/model"
	"github.com/EPFL-Life/life-sub001/internal/repository"
)

// UserServiceImpl implements UserService for user management business logic.
type UserServiceImpl struct {
	userRepo        repository.UserRepository
	associationRepo repository.AssociationRepository
	eventRepo       repository.EventRepository
	transactionMgr  repository.TransactionManager
	changes         changeNotifier
	locks           *keyedMutex
}

// NewUserServiceImpl creates a new UserService implementation.
func NewUserServiceImpl(
	userRepo repository.UserRepository,
	associationRepo repository.AssociationRepository,
	eventRepo repository.EventRepository,
	transactionMgr repository.TransactionManager,
	publisher changefeed.Publisher,
) UserService {
	return &UserServiceImpl{
		userRepo:        userRepo,
		associationRepo: associationRepo,
		eventRepo:       eventRepo,
		transactionMgr:  transactionMgr,
		changes:         newChangeNotifier(publisher),
		locks:           newKeyedMutex(),
	}
}

// SignIn returns the stored user or creates it with the default role.
// A stored record that cannot be decoded is replaced by a fresh user so the
// account stays usable.
func (s *UserServiceImpl) SignIn(ctx context.Context, id, name string) (model.User, error) {
	if id == "" {
		return model.User{}, model.ErrMissingID
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err == nil {
		return user, nil
	}

	corrupt := errors.Is(err, model.ErrUnparseable)
	if !corrupt && !errors.Is(err, model.ErrNotFound) {
		return model.User{}, err
	}

	if strings.TrimSpace(name) == "" {
		name = id
	}

	user = model.User{
		ID:             id,
		Name:           name,
		Subscriptions:  []string{},
		EnrolledEvents: []string{},
		Following:      []string{},
		Role:           model.RoleUser,
	}

	if corrupt {
		slog.Warn("replacing unparseable user record", slog.String("id", id), slog.Any("error", err))

		if err := s.userRepo.Update(ctx, id, user); err != nil {
			return model.User{}, fmt.Errorf("failed to repair user: %w", err)
		}

		s.changes.publish(ctx, model.CollectionUsers, model.ChangeActionUpdated, id)

		return user, nil
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race against a concurrent first sign-in.
		if errors.Is(err, model.ErrDuplicateID) {
			return s.userRepo.GetByID(ctx, id)
		}

		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user created", slog.String("id", id))
	s.changes.publish(ctx, model.CollectionUsers, model.ChangeActionCreated, id)

	return user, nil
}

// Get retrieves a user by ID.
func (s *UserServiceImpl) Get(ctx context.Context, id string) (model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// PublicProfile returns the fields of a user visible to others.
func (s *UserServiceImpl) PublicProfile(ctx context.Context, id string) (model.PublicProfile, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return model.PublicProfile{}, err
	}

	return user.Profile(), nil
}

// Follow adds targetID to the users followed by userID. Following is one-way.
func (s *UserServiceImpl) Follow(ctx context.Context, userID, targetID string) (model.User, error) {
	if userID == targetID {
		return model.User{}, model.ErrSelfFollow
	}

	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return model.User{}, err
	}

	return s.mutate(ctx, userID, func(u *model.User) bool {
		var changed bool
		u.Following, changed = model.AddID(u.Following, targetID)

		return changed
	})
}

// Unfollow removes targetID from the users followed by userID.
func (s *UserServiceImpl) Unfollow(ctx context.Context, userID, targetID string) (model.User, error) {
	return s.mutate(ctx, userID, func(u *model.User) bool {
		var changed bool
		u.Following, changed = model.RemoveID(u.Following, targetID)

		return changed
	})
}

// Subscribe adds an existing association to the user's subscriptions.
func (s *UserServiceImpl) Subscribe(ctx context.Context, userID, associationID string) (model.User, error) {
	if _, err := s.associationRepo.GetByID(ctx, associationID); err != nil {
		return model.User{}, err
	}

	return s.mutate(ctx, userID, func(u *model.User) bool {
		var changed bool
		u.Subscriptions, changed = model.AddID(u.Subscriptions, associationID)

		return changed
	})
}

// Unsubscribe removes associationID from the user's subscriptions. Unknown ids are a no-op.
func (s *UserServiceImpl) Unsubscribe(ctx context.Context, userID, associationID string) (model.User, error) {
	return s.mutate(ctx, userID, func(u *model.User) bool {
		var changed bool
		u.Subscriptions, changed = model.RemoveID(u.Subscriptions, associationID)

		return changed
	})
}

// Enroll registers the user to an existing event.
func (s *UserServiceImpl) Enroll(ctx context.Context, userID, eventID string) (model.User, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return model.User{}, err
	}

	return s.mutate(ctx, userID, func(u *model.User) bool {
		var changed bool
		u.EnrolledEvents, changed = model.AddID(u.EnrolledEvents, eventID)

		return changed
	})
}

// Unenroll removes eventID from the user's enrolled events.
func (s *UserServiceImpl) Unenroll(ctx context.Context, userID, eventID string) (model.User, error) {
	return s.mutate(ctx, userID, func(u *model.User) bool {
		var changed bool
		u.EnrolledEvents, changed = model.RemoveID(u.EnrolledEvents, eventID)

		return changed
	})
}

// UpdateSettings replaces the user's settings.
func (s *UserServiceImpl) UpdateSettings(ctx context.Context, userID string, settings model.UserSettings) (model.User, error) {
	return s.mutate(ctx, userID, func(u *model.User) bool {
		if u.Settings != nil && *u.Settings == settings {
			return false
		}

		u.Settings = &settings

		return true
	})
}

// SetRole changes the permission level of a user.
func (s *UserServiceImpl) SetRole(ctx context.Context, userID string, role model.Role) (model.User, error) {
	if _, err := model.ParseRole(string(role)); err != nil {
		return model.User{}, err
	}

	return s.mutate(ctx, userID, func(u *model.User) bool {
		if u.Role == role {
			return false
		}

		u.Role = role

		return true
	})
}

// mutate runs a read-modify-write on one user. Calls for the same user are serialised
// so concurrent changes to different lists are not lost.
func (s *UserServiceImpl) mutate(ctx context.Context, userID string, apply func(*model.User) bool) (model.User, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	var updated model.User
	var changed bool

	err := s.transactionMgr.WithTransaction(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		changed = apply(&user)
		updated = user

		if !changed {
			return nil
		}

		if err := s.userRepo.Update(ctx, userID, user); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}

		return nil
	})
	if err != nil {
		return model.User{}, err
	}

	if changed {
		s.changes.publish(ctx, model.CollectionUsers, model.ChangeActionUpdated, userID)
	}

	return updated, nil
}
