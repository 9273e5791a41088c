// Package validation runs request checks and reports the first failure as
// a validation error carrying a caller-chosen message.
package validation

import (
	"github.com/go-playground/validator/v10"

	"github.com/ayush/krishi-mitr/backend/internal/apperr"
)

var validate = validator.New()

// Struct validates the struct tags of s.
func Struct(s interface{}, msg string) error {
	if err := validate.Struct(s); err != nil {
		return apperr.Validation(msg)
	}
	return nil
}

// Var validates a single value against tag, e.g. "min=4".
func Var(field interface{}, tag, msg string) error {
	if err := validate.Var(field, tag); err != nil {
		return apperr.Validation(msg)
	}
	return nil
}

// First returns the first non-nil error of checks, evaluated in order.
func First(checks ...func() error) error {
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}
