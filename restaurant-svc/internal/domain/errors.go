package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrForbidden           = errors.New("forbidden")
	ErrRestaurantClosed    = errors.New("restaurant is currently closed")
	ErrOrderTypeDisabled   = errors.New("order type is not available at this restaurant")
	ErrInvalidTransition   = errors.New("invalid order status transition")
	ErrDuplicateSubmission = errors.New("order already submitted")
)

// ValidationError reports malformed or missing input for a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func Invalid(field, message string) error {
	return ValidationError{Field: field, Message: message}
}
