package console

import (
	"errors"

	"hotel/internal/database"
	"hotel/internal/export"
	"hotel/internal/models"
	"hotel/internal/service"
)

var (
	errBadNumber = errors.New("invalid number")
	errBadPrice  = errors.New("invalid price")
)

func (c *Console) report(err error) {
	if errors.Is(err, database.ErrPersistence) {
		c.logger.Error().Err(err).Msg("Storage failure")
	}
	c.println(errorMessage(err))
}

func errorMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, errBadNumber):
		return "Invalid input. Please enter a number."
	case errors.Is(err, errBadPrice):
		return "Invalid price entered."
	case errors.Is(err, database.ErrNotAvailable):
		return "The room is not available for these dates."
	case errors.Is(err, database.ErrDuplicate):
		return "An entry with this name already exists."
	case errors.Is(err, database.ErrConcurrentModification):
		return "The booking was changed meanwhile. Please try again."
	case errors.Is(err, service.ErrTransitionNotAllowed):
		return "This status change is not allowed."
	case errors.Is(err, database.ErrNotFound):
		return "Not found."
	case errors.Is(err, models.ErrInvertedRange):
		return "Check-out date must not be before check-in date."
	case errors.Is(err, export.ErrRangeTooLong):
		return "The export period is too long."
	case errors.Is(err, service.ErrBookingTooLong):
		return "The booking is too long."
	case errors.Is(err, service.ErrInvalidQuantity):
		return "Quantity must be a positive number."
	case errors.Is(err, service.ErrNegativePrice):
		return "Price must not be negative."
	case errors.Is(err, service.ErrValidation), errors.Is(err, models.ErrEmptyDate):
		return "Invalid input: " + err.Error()
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid username or password."
	case errors.Is(err, service.ErrUnauthenticated):
		return "Error: You must be logged in."
	case errors.Is(err, service.ErrForbidden):
		return "You do not have permission for this action."
	case errors.Is(err, database.ErrPersistence):
		return "A storage error occurred. Please try again later."
	default:
		return "Unexpected error: " + err.Error()
	}
}
