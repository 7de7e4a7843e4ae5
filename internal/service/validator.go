package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/fieldops/dispatchd/internal/domain"
)

// CreateTaskParams holds input for task creation.
type CreateTaskParams struct {
	Title             string `validate:"required,min=3,max=200"`
	Description       string
	ClientAddress     string `validate:"required"`
	Priority          domain.TaskPriority
	EstimatedDuration *int   `validate:"omitempty,gt=0"`
	CreatedBy         string `validate:"required"`
}

// Validator rejects malformed input before any state mutation is attempted.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// ValidateCreateTask checks task creation input. All failures wrap
// domain.ErrValidation so the handler layer can map them uniformly.
func (v *Validator) ValidateCreateTask(params CreateTaskParams) error {
	if err := v.validate.Struct(params); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && len(errs) > 0 {
			f := errs[0]
			return fmt.Errorf("%w: field %s failed on %s", domain.ErrValidation, f.Field(), f.Tag())
		}
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if params.Priority != "" && !params.Priority.IsValid() {
		return fmt.Errorf("%w: priority must be HIGH, MEDIUM or LOW", domain.ErrInvalidPriority)
	}

	return nil
}
