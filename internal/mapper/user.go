package mapper

import (
	"fmt"

	"github.com/EPFL-Life/life-sub001/internal/model"
)

const (
	fieldSubscriptions  = "subscriptions"
	fieldEnrolledEvents = "enrolledEvents"
	fieldFollowing      = "following"
	fieldSettings       = "settings"
	fieldLanguage       = "language"
	fieldRole           = "role"
)

// DecodeUser parses a document into a User. A missing role defaults to model.RoleUser.
func DecodeUser(doc Document) (model.User, error) {
	return decode("user", doc, decodeUser)
}

func decodeUser(doc Document) (model.User, error) {
	f := doc.Fields

	name, err := requiredString(f, fieldName)
	if err != nil {
		return model.User{}, err
	}

	subscriptions, err := optionalStrings(f, fieldSubscriptions)
	if err != nil {
		return model.User{}, err
	}

	enrolled, err := optionalStrings(f, fieldEnrolledEvents)
	if err != nil {
		return model.User{}, err
	}

	following, err := optionalStrings(f, fieldFollowing)
	if err != nil {
		return model.User{}, err
	}

	settings, err := decodeSettings(f)
	if err != nil {
		return model.User{}, err
	}

	role := model.RoleUser

	rawRole, err := optionalString(f, fieldRole)
	if err != nil {
		return model.User{}, err
	}

	if rawRole != nil {
		role, err = model.ParseRole(*rawRole)
		if err != nil {
			return model.User{}, fmt.Errorf("%w: %w", model.ErrUnparseable, err)
		}
	}

	return model.User{
		ID:             doc.ID,
		Name:           name,
		Subscriptions:  subscriptions,
		EnrolledEvents: enrolled,
		Following:      following,
		Settings:       settings,
		Role:           role,
	}, nil
}

func decodeSettings(fields map[string]any) (*model.UserSettings, error) {
	m, err := optionalMap(fields, fieldSettings)
	if err != nil || m == nil {
		return nil, err
	}

	language, err := optionalString(m, fieldLanguage)
	if err != nil {
		return nil, fmt.Errorf("%w (in %q)", err, fieldSettings)
	}

	settings := &model.UserSettings{}
	if language != nil {
		settings.Language = *language
	}

	return settings, nil
}

// EncodeUser converts a User into document fields.
func EncodeUser(u *model.User) map[string]any {
	role := u.Role
	if role == "" {
		role = model.RoleUser
	}

	fields := map[string]any{
		fieldName:           u.Name,
		fieldSubscriptions:  stringsToAny(u.Subscriptions),
		fieldEnrolledEvents: stringsToAny(u.EnrolledEvents),
		fieldFollowing:      stringsToAny(u.Following),
		fieldRole:           string(role),
	}

	if u.Settings != nil {
		fields[fieldSettings] = map[string]any{
			fieldLanguage: u.Settings.Language,
		}
	}

	return fields
}

func stringsToAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}

	return out
}
