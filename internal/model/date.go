package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
)

// ParseMealDate accepts a full date (2006-01-02) or an RFC 3339 date-time and
// returns the calendar date. Date-times are converted to UTC before the time
// of day is dropped.
func ParseMealDate(s string) (strfmt.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return strfmt.Date{}, fmt.Errorf("%w: date is required", ErrValidation)
	}
	if t, err := time.Parse(strfmt.RFC3339FullDate, s); err == nil {
		return strfmt.Date(t), nil
	}
	dt, err := strfmt.ParseDateTime(s)
	if err != nil {
		return strfmt.Date{}, fmt.Errorf("%w: invalid date %q", ErrValidation, s)
	}
	return DateOf(time.Time(dt)), nil
}

// DateOf truncates t to its UTC calendar date.
func DateOf(t time.Time) strfmt.Date {
	y, m, d := t.UTC().Date()
	return strfmt.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}
