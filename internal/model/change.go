package model

import "time"

// Collection names a stored entity collection.
type Collection string

const (
	CollectionEvents       Collection = "events"
	CollectionAssociations Collection = "associations"
	CollectionUsers        Collection = "users"
)

// ChangeAction represents the type of mutation applied to a record.
type ChangeAction string

const (
	// ChangeActionCreated represents a record creation.
	ChangeActionCreated ChangeAction = "created"
	// ChangeActionUpdated represents a full-record replacement.
	ChangeActionUpdated ChangeAction = "updated"
	// ChangeActionDeleted represents a record removal.
	ChangeActionDeleted ChangeAction = "deleted"
)

// Change represents the payload published for every repository mutation.
type Change struct {
	Collection Collection   `json:"collection"`
	Action     ChangeAction `json:"action"`
	ID         string       `json:"id"`
	At         time.Time    `json:"at"`
}
