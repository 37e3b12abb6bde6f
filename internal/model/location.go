package model

import (
	"fmt"
	"math"
)

// Location is a geographic point with a free-text display name.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name"`
}

// NewLocation builds a Location from numeric-castable coordinates.
// Any non-numeric input or non-finite value fails with ErrInvalidLocation.
func NewLocation(latitude, longitude any, name string) (Location, error) {
	lat, ok := toFloat(latitude)
	if !ok {
		return Location{}, fmt.Errorf("%w: latitude %v (%T)", ErrInvalidLocation, latitude, latitude)
	}

	lon, ok := toFloat(longitude)
	if !ok {
		return Location{}, fmt.Errorf("%w: longitude %v (%T)", ErrInvalidLocation, longitude, longitude)
	}

	return Location{Latitude: lat, Longitude: lon, Name: name}, nil
}

func toFloat(v any) (float64, bool) {
	var f float64

	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	return f, true
}
