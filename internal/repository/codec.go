package repository

import (
	"fmt"

	"github.com/EPFL-Life/life-sub001/internal/mapper"
	"github.com/EPFL-Life/life-sub001/internal/model"
)

// codec tells a generic store how to handle one entity type.
type codec[T any] struct {
	collection model.Collection
	id         func(*T) string
	setID      func(*T, string)
	clone      func(T) T
	decode     func(mapper.Document) (T, error)
	encode     func(*T) map[string]any
}

var eventCodec = codec[model.Event]{
	collection: model.CollectionEvents,
	id:         func(e *model.Event) string { return e.ID },
	setID:      func(e *model.Event, id string) { e.ID = id },
	clone:      model.Event.Clone,
	decode:     mapper.DecodeEvent,
	encode:     mapper.EncodeEvent,
}

var associationCodec = codec[model.Association]{
	collection: model.CollectionAssociations,
	id:         func(a *model.Association) string { return a.ID },
	setID:      func(a *model.Association, id string) { a.ID = id },
	clone:      model.Association.Clone,
	decode:     mapper.DecodeAssociation,
	encode:     mapper.EncodeAssociation,
}

var userCodec = codec[model.User]{
	collection: model.CollectionUsers,
	id:         func(u *model.User) string { return u.ID },
	setID:      func(u *model.User, id string) { u.ID = id },
	clone:      model.User.Clone,
	decode:     mapper.DecodeUser,
	encode:     mapper.EncodeUser,
}

func (c codec[T]) notFound(id string) error {
	return fmt.Errorf("%w: %s %q", model.ErrNotFound, c.collection, id)
}

func (c codec[T]) duplicate(id string) error {
	return fmt.Errorf("%w: %s %q", model.ErrDuplicateID, c.collection, id)
}

// createID returns the id of a record about to be created.
func (c codec[T]) createID(item *T) (string, error) {
	id := c.id(item)
	if id == "" {
		return "", fmt.Errorf("%w: %s", model.ErrMissingID, c.collection)
	}

	return id, nil
}

// resolveID makes item carry id. An item without id takes it; a different id is rejected.
func (c codec[T]) resolveID(id string, item *T) error {
	if id == "" {
		return fmt.Errorf("%w: %s", model.ErrMissingID, c.collection)
	}

	switch got := c.id(item); got {
	case id:
		return nil
	case "":
		c.setID(item, id)
		return nil
	default:
		return fmt.Errorf("%w: %s %q != %q", model.ErrIDMismatch, c.collection, got, id)
	}
}
