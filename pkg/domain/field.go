package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Field names one input of the contact form.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldMessage Field = "message"
)

// Fields lists the form fields in display order.
var Fields = []Field{FieldName, FieldEmail, FieldMessage}

// ParseField resolves a field name as it appears in form posts and URLs.
func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FieldName, FieldEmail, FieldMessage:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// ErrorKind classifies why a field failed validation.
type ErrorKind string

const (
	KindRequired      ErrorKind = "required"
	KindInvalidFormat ErrorKind = "invalid_format"
	KindTooShort      ErrorKind = "too_short"
	KindTooLong       ErrorKind = "too_long"
)

// FieldError is a single field-scoped validation failure.
type FieldError struct {
	Field   Field     `json:"field"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors maps each failing field to its error.
// Fields that pass are absent.
type ValidationErrors map[Field]FieldError

// Has reports whether field currently has an error.
func (v ValidationErrors) Has(field Field) bool {
	_, ok := v[field]
	return ok
}

// Clear removes field's error and returns the remaining set, nil when none remain.
func (v ValidationErrors) Clear(field Field) ValidationErrors {
	delete(v, field)
	if len(v) == 0 {
		return nil
	}
	return v
}

// Messages returns the human-readable message per field, keyed by field name.
func (v ValidationErrors) Messages() map[string]string {
	if len(v) == 0 {
		return nil
	}
	out := make(map[string]string, len(v))
	for f, e := range v {
		out[string(f)] = e.Message
	}
	return out
}

// Sorted returns the errors in field display order.
func (v ValidationErrors) Sorted() []FieldError {
	out := make([]FieldError, 0, len(v))
	for _, e := range v {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return fieldIndex(out[i].Field) < fieldIndex(out[j].Field)
	})
	return out
}

// Clone returns an independent copy (nil stays nil).
func (v ValidationErrors) Clone() ValidationErrors {
	if v == nil {
		return nil
	}
	out := make(ValidationErrors, len(v))
	for k, e := range v {
		out[k] = e
	}
	return out
}

func fieldIndex(f Field) int {
	for i, candidate := range Fields {
		if candidate == f {
			return i
		}
	}
	return len(Fields)
}
