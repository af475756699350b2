package incidents

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jrsteele09/citizen-watch/internal/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("incident_type", func(fl validator.FieldLevel) bool {
		return Type(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("incident_status", func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).Valid()
	})
	return v
}

// Validate checks a report before it is sent or stored.
func (r Report) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidIncident, err)
	}
	return nil
}

type statusChange struct {
	Status Status `json:"status" validate:"required,incident_status"`
}

func (s statusChange) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidIncident, err)
	}
	return nil
}
