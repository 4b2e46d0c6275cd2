package service

import (
	"fmt"

	"hotel/internal/config"
	"hotel/internal/models"
)

// TransitionTable lists the statuses reachable from each status.
type TransitionTable map[models.BookingStatus][]models.BookingStatus

// StrictTransitions: a booking is confirmed or cancelled, then completed or cancelled.
func StrictTransitions() TransitionTable {
	return TransitionTable{
		models.StatusPending:   {models.StatusConfirmed, models.StatusCancelled},
		models.StatusConfirmed: {models.StatusCancelled, models.StatusCompleted},
	}
}

// PermissiveTransitions allows any status to any other.
func PermissiveTransitions() TransitionTable {
	t := TransitionTable{}
	for _, from := range models.AllStatuses {
		for _, to := range models.AllStatuses {
			if from != to {
				t[from] = append(t[from], to)
			}
		}
	}
	return t
}

// TransitionsFromConfig builds the table selected by booking.transitions.
func TransitionsFromConfig(cfg config.BookingConfig) (TransitionTable, error) {
	switch cfg.Transitions {
	case config.TransitionsStrict:
		return StrictTransitions(), nil
	case config.TransitionsPermissive:
		return PermissiveTransitions(), nil
	case "":
		if err := config.ValidateTransitions(cfg.Custom); err != nil {
			return nil, err
		}
		t := TransitionTable{}
		for from, targets := range cfg.Custom {
			f, _ := models.LookupStatus(from)
			for _, to := range targets {
				st, _ := models.LookupStatus(to)
				t[f] = append(t[f], st)
			}
		}
		return t, nil
	default:
		return nil, fmt.Errorf("unknown transitions mode %q", cfg.Transitions)
	}
}

func (t TransitionTable) Allowed(from, to models.BookingStatus) bool {
	for _, st := range t[from] {
		if st == to {
			return true
		}
	}
	return false
}

// Targets returns the statuses reachable from the given one.
func (t TransitionTable) Targets(from models.BookingStatus) []models.BookingStatus {
	return append([]models.BookingStatus(nil), t[from]...)
}
