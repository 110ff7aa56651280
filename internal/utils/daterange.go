package utils

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// DateRange is an optional [From, To) window on creation timestamps.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && !t.Before(*r.To) {
		return false
	}
	return true
}

// ParseDateRange parses ISO 8601 start/end values. A bare end date
// includes that whole day.
func ParseDateRange(start, end string) (DateRange, error) {
	var r DateRange

	if start != "" {
		from, _, err := parseISO(start)
		if err != nil {
			return r, fmt.Errorf("invalid start_date: %w", err)
		}
		r.From = &from
	}

	if end != "" {
		to, dateOnly, err := parseISO(end)
		if err != nil {
			return r, fmt.Errorf("invalid end_date: %w", err)
		}
		if dateOnly {
			to = to.AddDate(0, 0, 1)
		} else {
			to = to.Add(time.Nanosecond)
		}
		r.To = &to
	}

	if r.From != nil && r.To != nil && !r.From.Before(*r.To) {
		return r, fmt.Errorf("start_date must be before end_date")
	}

	return r, nil
}

func parseISO(value string) (time.Time, bool, error) {
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t.UTC(), true, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false, err
	}
	return t.UTC(), false, nil
}
