package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/EPFL-Life/life-sub001/internal/model"
	"github.com/EPFL-Life/life-sub001/internal/service"
)

func strPtr(s string) *string { return &s }

var seedAssociations = []model.Association{
	{
		ID:          "agepoly",
		Name:        "AGEPoly",
		Description: "Student association of EPFL",
		Category:    model.CategoryInstitution,
		SocialLinks: map[string]string{"instagram": "https://instagram.com/agepoly"},
	},
	{
		ID:          "satellite",
		Name:        "Satellite",
		Description: "Campus bar and concert venue",
		Category:    model.CategoryCultureSociety,
		About:       strPtr("Run by students since 1994."),
	},
	{
		ID:          "epfl-racing-team",
		Name:        "EPFL Racing Team",
		Description: "Formula Student team",
		Category:    model.CategoryScienceTech,
	},
}

var seedEvents = []model.Event{
	{
		Title:         "Balelec",
		Description:   "Open-air music festival on campus",
		Location:      model.Location{Latitude: 46.5191, Longitude: 6.5668, Name: "EPFL Esplanade"},
		Time:          "2025-05-09 17:00",
		AssociationID: "agepoly",
		Tags:          model.NewTags("music", "festival"),
		Price:         45,
	},
	{
		Title:         "Jam session",
		Description:   "Bring your instrument",
		Location:      model.Location{Latitude: 46.5206, Longitude: 6.5652, Name: "Satellite"},
		Time:          "Every Tuesday 20:00",
		AssociationID: "satellite",
		Tags:          model.NewTags("music"),
	},
	{
		Title:         "Car rollout",
		Description:   "Unveiling of this year's car",
		Location:      model.Location{Latitude: 46.5184, Longitude: 6.5680, Name: "Rolex Learning Center"},
		Time:          "2025-06-20 18:00",
		AssociationID: "epfl-racing-team",
		Tags:          model.NewTags("engineering"),
	},
}

// seed creates the sample records. Records already present are left untouched.
func seed(ctx context.Context, associations service.AssociationService, events service.EventService) (int, error) {
	created := 0

	for _, a := range seedAssociations {
		if _, err := associations.Create(ctx, a.Clone()); err != nil {
			if errors.Is(err, model.ErrDuplicateID) {
				continue
			}

			return created, fmt.Errorf("seed association %s: %w", a.ID, err)
		}
		created++
	}

	existing, err := events.List(ctx)
	if err != nil {
		return created, err
	}

	titles := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		titles[e.Title] = struct{}{}
	}

	for _, e := range seedEvents {
		if _, ok := titles[e.Title]; ok {
			continue
		}

		if _, err := events.Create(ctx, e.Clone()); err != nil {
			return created, fmt.Errorf("seed event %s: %w", e.Title, err)
		}
		created++
	}

	return created, nil
}
