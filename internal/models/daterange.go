package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEmptyDate     = errors.New("date is required")
	ErrInvertedRange = errors.New("check-out date is before check-in date")
)

// DateRange is a closed interval of calendar dates: both ends are occupied days.
type DateRange struct {
	From time.Time
	To   time.Time
}

// ParseDate accepts YYYY-MM-DD only.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrEmptyDate
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// NewDateRange parses both ends and validates ordering.
func NewDateRange(from, to string) (DateRange, error) {
	f, err := ParseDate(from)
	if err != nil {
		return DateRange{}, err
	}
	t, err := ParseDate(to)
	if err != nil {
		return DateRange{}, err
	}
	r := DateRange{From: f, To: t}
	return r, r.Validate()
}

func (r DateRange) Validate() error {
	if r.From.IsZero() || r.To.IsZero() {
		return ErrEmptyDate
	}
	if Day(r.To).Before(Day(r.From)) {
		return ErrInvertedRange
	}
	return nil
}

// Overlaps uses closed-interval semantics: a shared boundary date overlaps.
func (r DateRange) Overlaps(o DateRange) bool {
	return !Day(r.From).After(Day(o.To)) && !Day(o.From).After(Day(r.To))
}

// Days counts occupied calendar days, both ends included.
func (r DateRange) Days() int {
	return int(Day(r.To).Sub(Day(r.From)).Hours()/24) + 1
}

// Nights counts nights between check-in and check-out.
func (r DateRange) Nights() int {
	return r.Days() - 1
}

func (r DateRange) String() string {
	return r.From.Format(DateLayout) + " to " + r.To.Format(DateLayout)
}

// Day truncates t to its calendar date in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
