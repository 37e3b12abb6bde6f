package mapper

import (
	"fmt"

	"github.com/EPFL-Life/life-sub001/internal/model"
)

const (
	fieldPictureURL  = "pictureUrl"
	fieldLogoURL     = "logoUrl"
	fieldCategory    = "category"
	fieldAbout       = "about"
	fieldSocialLinks = "socialLinks"
)

// DecodeAssociation parses a document into an Association.
func DecodeAssociation(doc Document) (model.Association, error) {
	return decode("association", doc, decodeAssociation)
}

func decodeAssociation(doc Document) (model.Association, error) {
	f := doc.Fields

	name, err := requiredString(f, fieldName)
	if err != nil {
		return model.Association{}, err
	}

	description, err := requiredString(f, fieldDescription)
	if err != nil {
		return model.Association{}, err
	}

	rawCategory, err := requiredString(f, fieldCategory)
	if err != nil {
		return model.Association{}, err
	}

	category, err := model.ParseCategory(rawCategory)
	if err != nil {
		return model.Association{}, fmt.Errorf("%w: %w", model.ErrUnparseable, err)
	}

	pictureURL, err := optionalString(f, fieldPictureURL)
	if err != nil {
		return model.Association{}, err
	}

	logoURL, err := optionalString(f, fieldLogoURL)
	if err != nil {
		return model.Association{}, err
	}

	about, err := optionalString(f, fieldAbout)
	if err != nil {
		return model.Association{}, err
	}

	links, err := decodeSocialLinks(f)
	if err != nil {
		return model.Association{}, err
	}

	return model.Association{
		ID:          doc.ID,
		Name:        name,
		Description: description,
		PictureURL:  pictureURL,
		LogoURL:     logoURL,
		Category:    category,
		About:       about,
		SocialLinks: links,
	}, nil
}

func decodeSocialLinks(fields map[string]any) (map[string]string, error) {
	m, err := optionalMap(fields, fieldSocialLinks)
	if err != nil || m == nil {
		return nil, err
	}

	links := make(map[string]string, len(m))
	for platform, v := range m {
		url, ok := v.(string)
		if !ok {
			return nil, fieldError(fieldSocialLinks+"."+platform, fmt.Sprintf("has type %T, want string", v))
		}

		links[platform] = url
	}

	return links, nil
}

// EncodeAssociation converts an Association into document fields.
func EncodeAssociation(a *model.Association) map[string]any {
	fields := map[string]any{
		fieldName:        a.Name,
		fieldDescription: a.Description,
		fieldCategory:    string(a.Category),
	}

	if a.PictureURL != nil {
		fields[fieldPictureURL] = *a.PictureURL
	}

	if a.LogoURL != nil {
		fields[fieldLogoURL] = *a.LogoURL
	}

	if a.About != nil {
		fields[fieldAbout] = *a.About
	}

	if a.SocialLinks != nil {
		links := make(map[string]any, len(a.SocialLinks))
		for k, v := range a.SocialLinks {
			links[k] = v
		}

		fields[fieldSocialLinks] = links
	}

	return fields
}
