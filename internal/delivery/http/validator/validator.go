// Package validator adapts go-playground/validator to echo's Validator interface.
package validator

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// echoValidator wraps a validator instance for use as echo.Validator.
type echoValidator struct {
	validate *validator.Validate
}

// New creates a request validator with struct tag validation enabled.
func New() echo.Validator {
	return &echoValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Validate implements echo.Validator. The raw validation error is returned
// so handlers can shape their own response from it.
func (v *echoValidator) Validate(i any) error {
	return v.validate.Struct(i)
}
