package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCollection is returned when no schema is registered for a collection.
var ErrUnknownCollection = errors.New("unknown collection")

// ErrorKind classifies a FieldError.
type ErrorKind string

const (
	KindMissingField     ErrorKind = "missing_field"
	KindInvalidFieldType ErrorKind = "invalid_field_type"
)

// FieldError is one field-level validation failure.
type FieldError struct {
	Kind   ErrorKind
	Field  string
	Reason string
}

// MissingField reports a required field that is absent or empty.
func MissingField(name string) FieldError {
	return FieldError{Kind: KindMissingField, Field: name}
}

// InvalidFieldType reports a present field whose value could not be coerced.
func InvalidFieldType(name, reason string) FieldError {
	return FieldError{Kind: KindInvalidFieldType, Field: name, Reason: reason}
}

func (e FieldError) Error() string {
	switch e.Kind {
	case KindMissingField:
		return fmt.Sprintf("missing required field %q", e.Field)
	case KindInvalidFieldType:
		return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
	default:
		return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
	}
}

// FieldErrors holds every failure found for a single entry, in schema field order.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	msgs := make([]string, len(fe))
	for i, e := range fe {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether fe contains an error of the given kind for field.
func (fe FieldErrors) Has(kind ErrorKind, field string) bool {
	for _, e := range fe {
		if e.Kind == kind && e.Field == field {
			return true
		}
	}
	return false
}
