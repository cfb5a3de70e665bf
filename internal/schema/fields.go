package schema

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FieldType is the raw shape a frontmatter value must have.
type FieldType string

const (
	TypeString     FieldType = "string"
	TypeDate       FieldType = "date"
	TypeStringList FieldType = "string_list"
	TypeBool       FieldType = "bool"
	TypeUUID       FieldType = "uuid"
)

// TransformFunc converts a type-checked value into its stored form.
type TransformFunc func(v any) (any, error)

// FieldDescriptor declares one recognized frontmatter field.
type FieldDescriptor struct {
	Name      string
	Required  bool
	Type      FieldType
	Transform TransformFunc
}

// transform returns the declared transform, falling back to the default for
// types whose stored form differs from their raw form.
func (f FieldDescriptor) transform() TransformFunc {
	if f.Transform != nil {
		return f.Transform
	}
	switch f.Type {
	case TypeDate:
		return ParseDate
	case TypeUUID:
		return ParseUUID
	}
	return nil
}

// dateLayouts are tried in order. The first is the plain ISO-8601 date used by
// nearly every entry.
var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate turns an ISO-8601 date or timestamp string into a time.Time.
// Values without a zone are interpreted as UTC.
func ParseDate(v any) (any, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, nil
			}
		}
		return nil, fmt.Errorf("cannot parse %q as an ISO-8601 date", t)
	default:
		return nil, fmt.Errorf("expected date, got %s", typeName(v))
	}
}

// ParseUUID normalizes a UUID string to its canonical lowercase form.
func ParseUUID(v any) (any, error) {
	s, _ := v.(string)
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("not a valid UUID: %w", err)
	}
	return id.String(), nil
}

// coerce checks that raw has the shape required by ft and returns it in a
// normalized Go type (string, []string, bool, or string|time.Time for dates).
func coerce(ft FieldType, raw any) (any, error) {
	switch ft {
	case TypeString, TypeUUID:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %s", typeName(raw))
		}
		return s, nil
	case TypeDate:
		switch raw.(type) {
		case string, time.Time:
			return raw, nil
		}
		return nil, fmt.Errorf("expected date string, got %s", typeName(raw))
	case TypeStringList:
		return coerceStringList(raw)
	case TypeBool:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("expected boolean, got %s", typeName(raw))
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unsupported field type %q", ft)
	}
}

// coerceStringList treats the list as a set: repeated values are dropped and
// first-seen order is kept.
func coerceStringList(raw any) ([]string, error) {
	var items []any
	switch list := raw.(type) {
	case []string:
		items = make([]any, len(list))
		for i, s := range list {
			items[i] = s
		}
	case []any:
		items = list
	default:
		return nil, fmt.Errorf("expected list of strings, got %s", typeName(raw))
	}

	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("element %d: expected string, got %s", i, typeName(item))
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out, nil
}

// isEmpty reports whether a present value counts as absent for a required field.
func isEmpty(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	}
	return false
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int64, uint64:
		return "integer"
	case float64:
		return "number"
	case []any:
		return "list"
	case map[string]any:
		return "mapping"
	default:
		return fmt.Sprintf("%T", v)
	}
}
