package model

import "strings"

// Event is an activity organised by an association.
type Event struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Location      Location `json:"location"`
	Time          string   `json:"time"`
	AssociationID string   `json:"association_id"`
	Tags          Tags     `json:"tags"`
	Price         Price    `json:"price"`
	ImageURL      *string  `json:"image_url,omitempty"`
}

// Validate checks the fields a caller must provide before storing an event.
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrInvalidTitle
	}

	return nil
}

// Clone returns a deep copy of the event. Nil tags become an empty set.
func (e Event) Clone() Event {
	cp := e
	cp.Tags = append(Tags{}, e.Tags...)

	cp.ImageURL = cloneString(e.ImageURL)

	return cp
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}

	v := *s

	return &v
}
