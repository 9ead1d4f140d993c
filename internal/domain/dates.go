package domain

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the wire and storage format of item dates.
const DateLayout = "2006-01-02"

// ErrInvalidDate is returned for dates that are not YYYY-MM-DD.
var ErrInvalidDate = errors.New("invalid date")

// ParseDate parses a YYYY-MM-DD calendar date into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q (want YYYY-MM-DD): %v", ErrInvalidDate, s, err)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Midnight truncates t to the civil date it falls on, expressed in UTC.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current civil date.
func Today() time.Time {
	return Midnight(time.Now())
}

// DatePtr returns a pointer to the civil date of t.
func DatePtr(t time.Time) *time.Time {
	d := Midnight(t)
	return &d
}
