package timeconv

import (
	"errors"
	"fmt"
	"time"
)

// ErrDateTooEarly matches any DateTooEarlyError via errors.Is.
var ErrDateTooEarly = errors.New("date too early for leap second table")

// DateTooEarlyError is returned for dates before the first table boundary.
type DateTooEarlyError struct {
	Date  time.Time
	First time.Time
}

func (e *DateTooEarlyError) Error() string {
	return fmt.Sprintf("%s: %s precedes %s", ErrDateTooEarly,
		e.Date.Format(time.RFC3339), e.First.Format(time.DateOnly))
}

func (e *DateTooEarlyError) Is(target error) bool {
	return target == ErrDateTooEarly
}

// TimeParseError is returned when a timestamp does not match its layout.
type TimeParseError struct {
	Input  string
	Layout string
	Err    error
}

func (e *TimeParseError) Error() string {
	return fmt.Sprintf("cannot parse time %q with layout %q: %v", e.Input, e.Layout, e.Err)
}

func (e *TimeParseError) Unwrap() error {
	return e.Err
}
