// Package validator adapts go-playground/validator to Echo's Validator interface.
package validator

import (
	domainerrors "lingo/internal/domain/errors"

	playgroundvalidator "github.com/go-playground/validator/v10"
)

// CustomValidator wraps a shared validator instance for Echo.
type CustomValidator struct {
	validate *playgroundvalidator.Validate
}

// New creates the validator Echo binds request payloads against.
func New() *CustomValidator {
	return &CustomValidator{
		validate: playgroundvalidator.New(playgroundvalidator.WithRequiredStructEnabled()),
	}
}

// Validate checks struct tags and converts failures to the domain error shape.
func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
