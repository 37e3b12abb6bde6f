package mapper

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EPFL-Life/life-sub001/internal/model"
)

func eventFields() map[string]any {
	return map[string]any{
		"title":         "Test Event",
		"description":   "This is a test event.",
		"time":          "10:00",
		"associationId": "testAssociationId",
		"location": map[string]any{
			"latitude":  1.0,
			"longitude": 2.0,
			"name":      "Test Location",
		},
		"tags":  []any{"tag1", "tag2"},
		"price": int64(100),
	}
}

func TestDecodeEvent_Valid(t *testing.T) {
	event, err := DecodeEvent(Document{ID: "testId", Fields: eventFields()})
	require.NoError(t, err)

	assert.Equal(t, model.Event{
		ID:            "testId",
		Title:         "Test Event",
		Description:   "This is a test event.",
		Location:      model.Location{Latitude: 1.0, Longitude: 2.0, Name: "Test Location"},
		Time:          "10:00",
		AssociationID: "testAssociationId",
		Tags:          model.Tags{"tag1", "tag2"},
		Price:         100,
	}, event)
}

func TestDecodeEvent_MissingID(t *testing.T) {
	_, err := DecodeEvent(Document{ID: "", Fields: eventFields()})
	require.ErrorIs(t, err, model.ErrUnparseable)
}

func TestDecodeEvent_NegativePrice(t *testing.T) {
	fields := eventFields()
	fields["price"] = int64(-100)

	_, err := DecodeEvent(Document{ID: "testId", Fields: fields})
	require.ErrorIs(t, err, model.ErrUnparseable)
	assert.ErrorIs(t, err, model.ErrInvalidPrice)
}

func TestDecodeEvent_PriceOverflow(t *testing.T) {
	fields := eventFields()
	fields["price"] = int64(math.MaxUint32) + 1

	_, err := DecodeEvent(Document{ID: "testId", Fields: fields})
	require.ErrorIs(t, err, model.ErrUnparseable)
}

func TestDecodeEvent_RequiredFields(t *testing.T) {
	for _, field := range []string{"title", "description", "time", "associationId", "location", "price"} {
		t.Run("missing "+field, func(t *testing.T) {
			fields := eventFields()
			delete(fields, field)

			_, err := DecodeEvent(Document{ID: "testId", Fields: fields})
			require.ErrorIs(t, err, model.ErrUnparseable)
			assert.Contains(t, err.Error(), field)
		})

		t.Run("wrong type "+field, func(t *testing.T) {
			fields := eventFields()
			fields[field] = true

			_, err := DecodeEvent(Document{ID: "testId", Fields: fields})
			require.ErrorIs(t, err, model.ErrUnparseable)
		})
	}
}

func TestDecodeEvent_Location(t *testing.T) {
	tests := []struct {
		name     string
		location any
		wantErr  bool
	}{
		{"latitude as string", map[string]any{"latitude": "1.0", "longitude": 2.0, "name": "x"}, true},
		{"missing longitude", map[string]any{"latitude": 1.0, "name": "x"}, true},
		{"missing name", map[string]any{"latitude": 1.0, "longitude": 2.0}, true},
		{"not a map", "EPFL", true},
		{"integer coordinates", map[string]any{"latitude": int64(46), "longitude": int64(6), "name": ""}, false},
		{"infinite latitude", map[string]any{"latitude": math.Inf(1), "longitude": 2.0, "name": "x"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := eventFields()
			fields["location"] = tt.location

			_, err := DecodeEvent(Document{ID: "testId", Fields: fields})
			if tt.wantErr {
				require.ErrorIs(t, err, model.ErrUnparseable)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestDecodeEvent_OptionalFields(t *testing.T) {
	fields := eventFields()
	delete(fields, "tags")

	event, err := DecodeEvent(Document{ID: "testId", Fields: fields})
	require.NoError(t, err)
	assert.Empty(t, event.Tags)
	assert.NotNil(t, event.Tags)
	assert.Nil(t, event.ImageURL)

	fields["imageUrl"] = "https://example.com/a.png"
	event, err = DecodeEvent(Document{ID: "testId", Fields: fields})
	require.NoError(t, err)
	require.NotNil(t, event.ImageURL)
	assert.Equal(t, "https://example.com/a.png", *event.ImageURL)

	fields["imageUrl"] = int64(3)
	_, err = DecodeEvent(Document{ID: "testId", Fields: fields})
	require.ErrorIs(t, err, model.ErrUnparseable)
}

func TestDecodeEvent_TagsCollapseDuplicates(t *testing.T) {
	fields := eventFields()
	fields["tags"] = []any{"music", "food", "music"}

	event, err := DecodeEvent(Document{ID: "testId", Fields: fields})
	require.NoError(t, err)
	assert.Len(t, event.Tags, 2)
	assert.True(t, event.Tags.Contains("music"))
	assert.True(t, event.Tags.Contains("food"))

	fields["tags"] = []any{"music", int64(1)}
	_, err = DecodeEvent(Document{ID: "testId", Fields: fields})
	require.ErrorIs(t, err, model.ErrUnparseable)
}

func TestDecodeEvent_EncodeRoundTrip(t *testing.T) {
	image := "https://example.com/poster.png"
	event := model.Event{
		ID:            "evt-1",
		Title:         "Balelec",
		Description:   "Open-air festival",
		Location:      model.Location{Latitude: 46.52, Longitude: 6.57, Name: "EPFL"},
		Time:          "Friday 18:00",
		AssociationID: "balelec",
		Tags:          model.NewTags("music", "festival"),
		Price:         25,
		ImageURL:      &image,
	}

	decoded, err := DecodeEvent(Document{ID: event.ID, Fields: EncodeEvent(&event)})
	require.NoError(t, err)
	assert.Equal(t, event, decoded)
}

func TestDecodeEvent_JSONDocument(t *testing.T) {
	raw := `{"title":"t","description":"d","time":"12:00","associationId":"a",
		"location":{"latitude":46,"longitude":6.5,"name":"n"},"tags":["x"],"price":0}`

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var fields map[string]any
	require.NoError(t, dec.Decode(&fields))

	normalized, ok := Normalize(fields).(map[string]any)
	require.True(t, ok)

	event, err := DecodeEvent(Document{ID: "json", Fields: normalized})
	require.NoError(t, err)
	assert.Equal(t, 46.0, event.Location.Latitude)
	assert.True(t, event.Price.IsFree())
}

func TestDecodeEvent_NilTagsRoundTripToStoredForm(t *testing.T) {
	event := model.Event{
		ID:            "evt-2",
		Title:         "Jam",
		Description:   "Open stage",
		Location:      model.Location{Latitude: 46.52, Longitude: 6.56, Name: "Satellite"},
		Time:          "20:00",
		AssociationID: "satellite",
	}

	decoded, err := DecodeEvent(Document{ID: event.ID, Fields: EncodeEvent(&event)})
	require.NoError(t, err)
	assert.Equal(t, event.Clone(), decoded)
	assert.NotNil(t, decoded.Tags)
}
