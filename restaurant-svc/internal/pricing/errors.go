package pricing

import "errors"

var (
	ErrMenuItemNotFound   = errors.New("menu item not found")
	ErrVariantNotFound    = errors.New("variant not found")
	ErrInvalidMenuItem    = errors.New("invalid menu item configuration")
	ErrInvariantViolation = errors.New("pricing invariant violated")
)
