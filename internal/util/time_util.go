package util

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

func NewDate(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func DateLte(t1, t2 time.Time) bool {
	return t1.Before(t2) || t1.Format(DateLayout) == t2.Format(DateLayout)
}

// ParseDateRange parses YYYY-MM-DD bounds. An empty end means today
func ParseDateRange(start, end string, now time.Time) (time.Time, time.Time, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	e := NewDate(now.Year(), int(now.Month()), now.Day())
	if end != "" {
		e, err = time.Parse(DateLayout, end)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q: %w", end, err)
		}
	}
	if !DateLte(s, e) {
		return time.Time{}, time.Time{}, fmt.Errorf("start date %s is after end date %s", start, e.Format(DateLayout))
	}
	return s, e, nil
}
