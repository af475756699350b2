package auth

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jrsteele09/citizen-watch/internal/errors"
	"github.com/jrsteele09/citizen-watch/users"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("password_strength", func(fl validator.FieldLevel) bool {
		return users.ValidatePasswordStrength(fl.Field().String()) == nil
	})
	return v
}

// Validate checks the validate tags on one of the request types of this package.
// Failures wrap ErrInvalidRequest.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidRequest, err)
	}
	return nil
}
