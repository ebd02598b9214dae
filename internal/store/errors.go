package store

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("record not found")
	ErrNegativeStock      = errors.New("stock cannot be negative")
	ErrInvalidStatus      = errors.New("unknown order status")
	ErrInvalidTransition  = errors.New("order status cannot leave a terminal state")
	ErrTotalMismatch      = errors.New("order total does not match its line items")
	ErrMissingContact     = errors.New("order needs a customer id or phone number")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrEmailExists        = errors.New("email already registered")
	ErrNotAuthenticated   = errors.New("not signed in")
	ErrInvalidTheme       = errors.New("unknown theme")
)
