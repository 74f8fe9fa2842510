package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Validator adapts validator/v10 to echo.Validator. Besides the built-in
// tags it understands notblank, which rejects whitespace-only strings.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates the request validator used by the router.
func NewValidator() *Validator {
	v := validator.New()
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return &Validator{validate: v}
}

// Validate implements echo.Validator.
func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
