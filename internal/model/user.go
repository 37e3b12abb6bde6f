// Package model defines domain models and data structures.
package model

import (
	"fmt"
	"slices"
	"strings"
)

// Role is the permission level of a user.
type Role string

const (
	// RoleUser is a regular member.
	RoleUser Role = "user"
	// RoleAdmin may publish events and manage associations.
	RoleAdmin Role = "admin"
)

// ParseRole returns the Role named by s.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleUser, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

// UserSettings holds per-user preferences.
type UserSettings struct {
	Language string `json:"language,omitempty"`
}

// User represents a user entity. ID matches the identity provider's user id.
type User struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Subscriptions  []string      `json:"subscriptions"`
	EnrolledEvents []string      `json:"enrolled_events"`
	Following      []string      `json:"following"`
	Settings       *UserSettings `json:"settings,omitempty"`
	Role           Role          `json:"role"`
}

// Validate checks the fields required before storing a user.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrInvalidName
	}

	if _, err := ParseRole(string(u.Role)); err != nil {
		return err
	}

	return nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Clone returns a deep copy of the user in stored form: nil id lists become
// empty and a missing role becomes RoleUser.
func (u User) Clone() User {
	cp := u
	cp.Subscriptions = cloneIDs(u.Subscriptions)
	cp.EnrolledEvents = cloneIDs(u.EnrolledEvents)
	cp.Following = cloneIDs(u.Following)

	if cp.Role == "" {
		cp.Role = RoleUser
	}

	if u.Settings != nil {
		s := *u.Settings
		cp.Settings = &s
	}

	return cp
}

// PublicProfile is the subset of a user visible to other users.
type PublicProfile struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Subscriptions []string `json:"subscriptions"`
	Following     []string `json:"following"`
}

// Profile returns the public view of the user.
func (u *User) Profile() PublicProfile {
	return PublicProfile{
		ID:            u.ID,
		Name:          u.Name,
		Subscriptions: cloneIDs(u.Subscriptions),
		Following:     cloneIDs(u.Following),
	}
}

// AddID appends id to ids unless already present. It reports whether ids changed.
func AddID(ids []string, id string) ([]string, bool) {
	if slices.Contains(ids, id) {
		return ids, false
	}

	return append(ids, id), true
}

// RemoveID removes every occurrence of id. It reports whether ids changed.
func RemoveID(ids []string, id string) ([]string, bool) {
	out := slices.DeleteFunc(slices.Clone(ids), func(v string) bool { return v == id })
	return out, len(out) != len(ids)
}

func cloneIDs(ids []string) []string {
	if ids == nil {
		return []string{}
	}

	return slices.Clone(ids)
}
