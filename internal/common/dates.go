package common

import (
	"fmt"
	"time"
)

// DateLayout is the YYYYMMDD form used in directory names and the CLI.
const DateLayout = "20060102"

// Today returns the current date in loc as YYYYMMDD.
func Today(loc *time.Location) string {
	return time.Now().In(loc).Format(DateLayout)
}

// ParseTradeDate checks that s is a real YYYYMMDD date.
func ParseTradeDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q is not YYYYMMDD: %w", s, err)
	}
	return t, nil
}

// IsTradingDay reports whether t falls on a weekday that is not a listed holiday.
func IsTradingDay(t time.Time, holidays []string) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	day := t.Format(DateLayout)
	for _, h := range holidays {
		if h == day {
			return false
		}
	}
	return true
}
