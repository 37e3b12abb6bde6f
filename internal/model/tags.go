package model

import (
	"encoding/json"
	"sort"
)

// Tags is a set of strings kept sorted and free of duplicates.
type Tags []string

// NewTags builds a Tags set, collapsing duplicates.
func NewTags(values ...string) Tags {
	if len(values) == 0 {
		return Tags{}
	}

	seen := make(map[string]struct{}, len(values))
	tags := make(Tags, 0, len(values))

	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}

		seen[v] = struct{}{}
		tags = append(tags, v)
	}

	sort.Strings(tags)

	return tags
}

// Contains reports whether tag is a member of the set.
func (t Tags) Contains(tag string) bool {
	i := sort.SearchStrings(t, tag)
	return i < len(t) && t[i] == tag
}

// UnmarshalJSON decodes a JSON array and normalises it into a set.
func (t *Tags) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}

	*t = NewTags(values...)

	return nil
}
