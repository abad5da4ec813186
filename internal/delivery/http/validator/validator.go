// Package validator adapts go-playground/validator to Echo's Validator interface.
package validator

import (
	domainerrors "taskhub/internal/domain/errors"

	playground "github.com/go-playground/validator/v10"
)

// requestValidator wraps the go-playground validator so handlers can rely on
// struct tags for input validation.
type requestValidator struct {
	validate *playground.Validate
}

// New creates the Echo request validator.
func New() *requestValidator {
	return &requestValidator{
		validate: playground.New(playground.WithRequiredStructEnabled()),
	}
}

// Validate implements echo.Validator. Tag violations surface as the
// validation domain error so the error handler renders a 400 envelope.
func (v *requestValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
