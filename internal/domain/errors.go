package domain

import "errors"

// Domain-specific errors for business logic validation.
var (
	// Task errors
	ErrTaskNotFound = errors.New("task not found")

	// Assignment errors
	ErrNoActiveAssignment = errors.New("no active assignment for task")
	ErrInvalidState       = errors.New("invalid state for requested transition")
	ErrConflict           = errors.New("concurrent modification detected")

	// Technician errors
	ErrTechnicianNotFound = errors.New("technician not found")
	ErrTechnicianInactive = errors.New("technician is inactive")

	// Validation errors
	ErrValidation      = errors.New("validation failed")
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrInvalidPriority = errors.New("invalid task priority")
)
