package model

import (
	"fmt"
	"strings"
)

// Category classifies an association.
type Category string

const (
	CategoryInstitution      Category = "institution"
	CategoryScienceTech      Category = "science_tech"
	CategoryCultureSociety   Category = "culture_society"
	CategorySports           Category = "sports"
	CategoryEnvironment      Category = "environment"
	CategoryEntrepreneurship Category = "entrepreneurship"
	CategoryOther            Category = "other"
)

// ParseCategory returns the Category named by s.
func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryInstitution, CategoryScienceTech, CategoryCultureSociety, CategorySports,
		CategoryEnvironment, CategoryEntrepreneurship, CategoryOther:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
}

// Association is a student association publishing events.
type Association struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	PictureURL  *string           `json:"picture_url,omitempty"`
	LogoURL     *string           `json:"logo_url,omitempty"`
	Category    Category          `json:"category"`
	About       *string           `json:"about,omitempty"`
	SocialLinks map[string]string `json:"social_links,omitempty"`
}

// Validate checks the fields a caller must provide before storing an association.
func (a *Association) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrInvalidName
	}

	if _, err := ParseCategory(string(a.Category)); err != nil {
		return err
	}

	return nil
}

// Clone returns a deep copy of the association.
func (a Association) Clone() Association {
	cp := a
	cp.PictureURL = cloneString(a.PictureURL)
	cp.LogoURL = cloneString(a.LogoURL)
	cp.About = cloneString(a.About)

	if a.SocialLinks != nil {
		cp.SocialLinks = make(map[string]string, len(a.SocialLinks))
		for k, v := range a.SocialLinks {
			cp.SocialLinks[k] = v
		}
	}

	return cp
}
