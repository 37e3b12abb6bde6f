package mapper

import (
	"errors"
	"fmt"

	"github.com/EPFL-Life/life-sub001/internal/model"
)

const (
	fieldTitle         = "title"
	fieldDescription   = "description"
	fieldLocation      = "location"
	fieldLatitude      = "latitude"
	fieldLongitude     = "longitude"
	fieldName          = "name"
	fieldTime          = "time"
	fieldAssociationID = "associationId"
	fieldTags          = "tags"
	fieldPrice         = "price"
	fieldImageURL      = "imageUrl"
)

// DecodeEvent parses a document into an Event.
func DecodeEvent(doc Document) (model.Event, error) {
	return decode("event", doc, decodeEvent)
}

func decodeEvent(doc Document) (model.Event, error) {
	f := doc.Fields

	title, err := requiredString(f, fieldTitle)
	if err != nil {
		return model.Event{}, err
	}

	description, err := requiredString(f, fieldDescription)
	if err != nil {
		return model.Event{}, err
	}

	eventTime, err := requiredString(f, fieldTime)
	if err != nil {
		return model.Event{}, err
	}

	associationID, err := requiredString(f, fieldAssociationID)
	if err != nil {
		return model.Event{}, err
	}

	imageURL, err := optionalString(f, fieldImageURL)
	if err != nil {
		return model.Event{}, err
	}

	location, err := decodeLocation(f)
	if err != nil {
		return model.Event{}, err
	}

	tags, err := optionalStrings(f, fieldTags)
	if err != nil {
		return model.Event{}, err
	}

	rawPrice, err := requiredInt64(f, fieldPrice)
	if err != nil {
		return model.Event{}, err
	}

	price, err := model.NewPrice(rawPrice)
	if err != nil {
		return model.Event{}, fmt.Errorf("%w: %w", model.ErrUnparseable, err)
	}

	return model.Event{
		ID:            doc.ID,
		Title:         title,
		Description:   description,
		Location:      location,
		Time:          eventTime,
		AssociationID: associationID,
		Tags:          model.NewTags(tags...),
		Price:         price,
		ImageURL:      imageURL,
	}, nil
}

func decodeLocation(fields map[string]any) (model.Location, error) {
	m, err := requiredMap(fields, fieldLocation)
	if err != nil {
		return model.Location{}, err
	}

	lat, ok := m[fieldLatitude]
	if !ok || lat == nil {
		return model.Location{}, fieldError(fieldLocation+"."+fieldLatitude, "is missing")
	}

	lon, ok := m[fieldLongitude]
	if !ok || lon == nil {
		return model.Location{}, fieldError(fieldLocation+"."+fieldLongitude, "is missing")
	}

	name, err := requiredString(m, fieldName)
	if err != nil {
		return model.Location{}, fmt.Errorf("%w (in %q)", err, fieldLocation)
	}

	location, err := model.NewLocation(lat, lon, name)
	if err != nil {
		if errors.Is(err, model.ErrInvalidLocation) {
			return model.Location{}, fmt.Errorf("%w: %w", model.ErrUnparseable, err)
		}

		return model.Location{}, err
	}

	return location, nil
}

// EncodeEvent converts an Event into document fields. The id is not part of the fields.
func EncodeEvent(e *model.Event) map[string]any {
	fields := map[string]any{
		fieldTitle:       e.Title,
		fieldDescription: e.Description,
		fieldLocation: map[string]any{
			fieldLatitude:  e.Location.Latitude,
			fieldLongitude: e.Location.Longitude,
			fieldName:      e.Location.Name,
		},
		fieldTime:          e.Time,
		fieldAssociationID: e.AssociationID,
		fieldTags:          stringsToAny(e.Tags),
		fieldPrice:         int64(e.Price),
	}

	if e.ImageURL != nil {
		fields[fieldImageURL] = *e.ImageURL
	}

	return fields
}
