package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EPFL-Life/life-sub001/internal/model"
)

func associationFields() map[string]any {
	return map[string]any{
		"name":        "AGEPoly",
		"description": "Student union",
		"category":    "institution",
	}
}

func TestDecodeAssociation_Valid(t *testing.T) {
	assoc, err := DecodeAssociation(Document{ID: "agepoly", Fields: associationFields()})
	require.NoError(t, err)

	assert.Equal(t, "agepoly", assoc.ID)
	assert.Equal(t, model.CategoryInstitution, assoc.Category)
	assert.Nil(t, assoc.PictureURL)
	assert.Nil(t, assoc.About)
	assert.Nil(t, assoc.SocialLinks)
}

func TestDecodeAssociation_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"missing name", func(f map[string]any) { delete(f, "name") }},
		{"unknown category", func(f map[string]any) { f["category"] = "parties" }},
		{"picture url wrong type", func(f map[string]any) { f["pictureUrl"] = 12.5 }},
		{"social links not a map", func(f map[string]any) { f["socialLinks"] = []any{"x"} }},
		{"social link not a string", func(f map[string]any) { f["socialLinks"] = map[string]any{"instagram": false} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := associationFields()
			tt.mutate(fields)

			_, err := DecodeAssociation(Document{ID: "agepoly", Fields: fields})
			require.ErrorIs(t, err, model.ErrUnparseable)
		})
	}
}

func TestDecodeAssociation_EncodeRoundTrip(t *testing.T) {
	logo := "https://example.com/logo.png"
	about := "Since 1983"
	assoc := model.Association{
		ID:          "agepoly",
		Name:        "AGEPoly",
		Description: "Student union",
		LogoURL:     &logo,
		Category:    model.CategoryInstitution,
		About:       &about,
		SocialLinks: map[string]string{"instagram": "https://instagram.com/agepoly"},
	}

	decoded, err := DecodeAssociation(Document{ID: assoc.ID, Fields: EncodeAssociation(&assoc)})
	require.NoError(t, err)
	assert.Equal(t, assoc, decoded)
}
