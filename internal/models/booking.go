package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// AllStatuses lists statuses in lifecycle order.
var AllStatuses = []BookingStatus{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted}

// ParseStatus maps a stored string to a status. Unrecognised values read as pending.
func ParseStatus(s string) BookingStatus {
	switch BookingStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusConfirmed:
		return StatusConfirmed
	case StatusCancelled:
		return StatusCancelled
	case StatusCompleted:
		return StatusCompleted
	default:
		return StatusPending
	}
}

// LookupStatus is the strict variant of ParseStatus used for user input.
func LookupStatus(s string) (BookingStatus, bool) {
	for _, st := range AllStatuses {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, true
		}
	}
	return "", false
}

func (s BookingStatus) String() string { return string(s) }

// IsActive reports whether the booking still occupies its room.
func (s BookingStatus) IsActive() bool { return s != StatusCancelled }

func (s *BookingStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s = ParseStatus(v)
	case []byte:
		*s = ParseStatus(string(v))
	case nil:
		*s = StatusPending
	default:
		return fmt.Errorf("unsupported booking status type %T", src)
	}
	return nil
}

func (s BookingStatus) Value() (driver.Value, error) {
	return string(ParseStatus(string(s))), nil
}

type Booking struct {
	ID        int64         `json:"id"`
	UserID    int64         `json:"user_id"`
	RoomID    int64         `json:"room_id"`
	DateFrom  time.Time     `json:"date_from"`
	DateTo    time.Time     `json:"date_to"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Range returns the booked date range.
func (b *Booking) Range() DateRange {
	return DateRange{From: b.DateFrom, To: b.DateTo}
}
