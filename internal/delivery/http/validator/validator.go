// Package validator adapts go-playground/validator to echo's Validator
// interface so handlers can declare constraints as struct tags.
package validator

import (
	playground "github.com/go-playground/validator/v10"

	domainerrors "sharegarden/internal/domain/errors"
)

// Validator wraps a shared validator instance.
type Validator struct {
	validate *playground.Validate
}

// New builds the request validator.
func New() *Validator {
	return &Validator{validate: playground.New(playground.WithRequiredStructEnabled())}
}

// Validate implements echo.Validator. Constraint failures surface as the
// domain validation error so the error handler renders them uniformly.
func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidation.WithDetails(err.Error())
	}

	return nil
}
