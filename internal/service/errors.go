package service

import (
	"errors"
	"fmt"

	"hotel/internal/database"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrInvalidQuantity = fmt.Errorf("%w: quantity must be positive", ErrValidation)
	ErrNegativePrice   = fmt.Errorf("%w: price must not be negative", ErrValidation)
	ErrEmptyField      = fmt.Errorf("%w: required field is empty", ErrValidation)
	ErrUnknownRole     = fmt.Errorf("%w: unknown role", ErrValidation)
	ErrBookingTooLong  = fmt.Errorf("%w: booking exceeds the maximum length", ErrValidation)
	ErrNilBooking      = fmt.Errorf("%w: booking is required", ErrValidation)

	ErrUnauthenticated    = errors.New("not logged in")
	ErrForbidden          = errors.New("operation not permitted for this role")
	ErrInvalidCredentials = errors.New("invalid login or credential")

	// ErrTransitionNotAllowed is a conflict with the booking's current status.
	ErrTransitionNotAllowed = fmt.Errorf("%w: status transition not allowed", database.ErrConflict)
)

func validationError(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}
