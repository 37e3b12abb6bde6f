// Package mapper converts between semi-structured store documents and typed entities.
//
// Decoding is strict: a document either yields a complete entity or an error
// wrapping model.ErrUnparseable. The functions here know nothing about any
// particular store client.
package mapper

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/EPFL-Life/life-sub001/internal/model"
)

// Document is a stored record: its identifier plus its untyped fields.
type Document struct {
	ID     string
	Fields map[string]any
}

// fieldError builds the error returned for a single bad field.
func fieldError(field, reason string) error {
	return fmt.Errorf("%w: field %q %s", model.ErrUnparseable, field, reason)
}

// decode runs fn and converts any panic into ErrUnparseable.
func decode[T any](kind string, doc Document, fn func(Document) (T, error)) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("recovered while decoding document",
				slog.String("kind", kind),
				slog.String("id", doc.ID),
				slog.Any("panic", r),
			)

			var zero T
			out, err = zero, fmt.Errorf("%w: %s %q: %v", model.ErrUnparseable, kind, doc.ID, r)
		}
	}()

	if doc.ID == "" {
		var zero T
		return zero, fieldError("id", "is missing")
	}

	return fn(doc)
}

func requiredString(fields map[string]any, key string) (string, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return "", fieldError(key, "is missing")
	}

	s, ok := v.(string)
	if !ok {
		return "", fieldError(key, fmt.Sprintf("has type %T, want string", v))
	}

	return s, nil
}

func optionalString(fields map[string]any, key string) (*string, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return nil, nil
	}

	s, ok := v.(string)
	if !ok {
		return nil, fieldError(key, fmt.Sprintf("has type %T, want string", v))
	}

	return &s, nil
}

func requiredInt64(fields map[string]any, key string) (int64, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return 0, fieldError(key, "is missing")
	}

	n, ok := v.(int64)
	if !ok {
		return 0, fieldError(key, fmt.Sprintf("has type %T, want int64", v))
	}

	return n, nil
}

func requiredMap(fields map[string]any, key string) (map[string]any, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return nil, fieldError(key, "is missing")
	}

	m, ok := v.(map[string]any)
	if !ok {
		return nil, fieldError(key, fmt.Sprintf("has type %T, want map", v))
	}

	return m, nil
}

func optionalMap(fields map[string]any, key string) (map[string]any, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return nil, nil
	}

	m, ok := v.(map[string]any)
	if !ok {
		return nil, fieldError(key, fmt.Sprintf("has type %T, want map", v))
	}

	return m, nil
}

// optionalStrings reads a list of strings. Absent means empty.
func optionalStrings(fields map[string]any, key string) ([]string, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return []string{}, nil
	}

	switch list := v.(type) {
	case []string:
		return append([]string{}, list...), nil
	case []any:
		out := make([]string, 0, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fieldError(key, fmt.Sprintf("item %d has type %T, want string", i, item))
			}

			out = append(out, s)
		}

		return out, nil
	default:
		return nil, fieldError(key, fmt.Sprintf("has type %T, want list", v))
	}
}

// Normalize converts values produced by encoding/json (with UseNumber) or by
// plain float decoding into the canonical document representation: integral
// numbers become int64, other numbers float64, nested maps and lists are
// walked recursively.
func Normalize(v any) any {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}

		if f, err := t.Float64(); err == nil {
			return f
		}

		return t.String()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = Normalize(item)
		}

		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Normalize(item)
		}

		return out
	case int:
		return int64(t)
	case int32:
		return int64(t)
	default:
		return v
	}
}
