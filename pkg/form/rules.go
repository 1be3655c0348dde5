package form

import (
	"errors"
	"reflect"
	"strings"

	"github.com/aretw0/devcraft/pkg/domain"
	"github.com/go-playground/validator/v10"
)

const (
	MaxNameLength    = 100
	MaxEmailLength   = 255
	MinMessageLength = 10
	MaxMessageLength = 1000
)

// contactRules mirrors domain.FormInput with the rule set attached.
// Tags on one field are evaluated in order and stop at the first failure,
// so each field reports at most one error.
type contactRules struct {
	Name    string `form:"name" validate:"required,max=100"`
	Email   string `form:"email" validate:"required,max=255,email"`
	Message string `form:"message" validate:"min=10,max=1000"`
}

var messages = map[domain.Field]map[domain.ErrorKind]string{
	domain.FieldName: {
		domain.KindRequired: "Name is required",
		domain.KindTooLong:  "Name must be less than 100 characters",
	},
	domain.FieldEmail: {
		domain.KindRequired:      "Email is required",
		domain.KindInvalidFormat: "Please enter a valid email",
		domain.KindTooLong:       "Email must be less than 255 characters",
	},
	domain.FieldMessage: {
		domain.KindTooShort: "Message must be at least 10 characters",
		domain.KindTooLong:  "Message must be less than 1000 characters",
	},
}

// Validator applies the contact form rules to trimmed input.
type Validator struct {
	v *validator.Validate
}

// NewValidator builds a Validator. It is safe for concurrent use.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("form")
	})
	return &Validator{v: v}
}

// Validate checks every field and returns one error per failing field.
// A nil map means the input is valid.
func (val *Validator) Validate(in domain.FormInput) domain.ValidationErrors {
	trimmed := Trim(in)
	err := val.v.Struct(contactRules{
		Name:    trimmed.Name,
		Email:   trimmed.Email,
		Message: trimmed.Message,
	})
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// Only reachable on a programming error in contactRules.
		panic(err)
	}

	out := make(domain.ValidationErrors, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := domain.Field(fe.Field())
		kind := kindOf(fe.Tag())
		out[field] = domain.FieldError{
			Field:   field,
			Kind:    kind,
			Message: messageFor(field, kind),
		}
	}
	return out
}

// Trim returns the input with surrounding whitespace removed from every field.
func Trim(in domain.FormInput) domain.FormInput {
	return domain.FormInput{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Message: strings.TrimSpace(in.Message),
	}
}

func kindOf(tag string) domain.ErrorKind {
	switch tag {
	case "required":
		return domain.KindRequired
	case "email":
		return domain.KindInvalidFormat
	case "min":
		return domain.KindTooShort
	case "max":
		return domain.KindTooLong
	}
	return domain.KindInvalidFormat
}

func messageFor(field domain.Field, kind domain.ErrorKind) string {
	if msg, ok := messages[field][kind]; ok {
		return msg
	}
	return "Invalid value"
}
