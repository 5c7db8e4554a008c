package util

import (
	"time"
)

// Today returns midnight of the current civil date in location
func Today(location *time.Location) time.Time {
	return StartOfDay(time.Now(), location)
}

func StartOfDay(t time.Time, location *time.Location) time.Time {
	local := t.In(location)

	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, location)
}
