package consolidator

import (
	"time"

	"github.com/travigo/stopservices/pkg/transxchange"
)

// IsActive reports whether today falls inside the first set of bounds that has
// either side present. With no bounds at all a service is always active.
func IsActive(today time.Time, bounds ...transxchange.DateBounds) bool {
	for _, bound := range bounds {
		if !bound.IsSet() {
			continue
		}

		if bound.Start != nil && civilDate(today).Before(civilDate(*bound.Start)) {
			return false
		}
		if bound.End != nil && civilDate(today).After(civilDate(*bound.End)) {
			return false
		}

		return true
	}

	return true
}

// civilDate drops the time of day so comparisons are inclusive on both ends
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
