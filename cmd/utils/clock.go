package utils

import "time"

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// Now is the single clock source for every "today" comparison. All dates are
// naive server-local values; tests swap this out to pin the calendar.
var Now = time.Now

// Today returns the current server-local date as YYYY-MM-DD.
func Today() string {
	return Now().Format(DateLayout)
}

// ParseDate validates a YYYY-MM-DD value.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// ParseTime validates an HH:MM:SS value.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}
