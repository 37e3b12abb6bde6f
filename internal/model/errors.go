package model

import "errors"

var (
	// ErrNotFound is returned when no record matches the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateID is returned when a record with the same id already exists.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrMissingID is returned when a record without id is stored.
	ErrMissingID = errors.New("record id is required")
	// ErrIDMismatch is returned when an update carries a record whose id differs from the target id.
	ErrIDMismatch = errors.New("record id does not match target id")
	// ErrUnparseable is returned when a stored document violates the required-field contract.
	ErrUnparseable = errors.New("unparseable record")

	// ErrInvalidLocation is returned when coordinates are not finite numbers.
	ErrInvalidLocation = errors.New("invalid location")
	// ErrInvalidPrice is returned when a price is negative or does not fit the price type.
	ErrInvalidPrice = errors.New("invalid price")
	// ErrInvalidCategory is returned for an unknown association category.
	ErrInvalidCategory = errors.New("invalid association category")
	// ErrInvalidRole is returned for an unknown user role.
	ErrInvalidRole = errors.New("invalid user role")
	// ErrInvalidTitle is returned when an event title is empty.
	ErrInvalidTitle = errors.New("title is required")
	// ErrInvalidName is returned when an association or user name is empty.
	ErrInvalidName = errors.New("name is required")
	// ErrSelfFollow is returned when a user tries to follow themselves.
	ErrSelfFollow = errors.New("users cannot follow themselves")
	// ErrUnknownReference is returned when a record points at another record that does not exist.
	ErrUnknownReference = errors.New("referenced record does not exist")
)
