package transxchange

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const DateFormat = "2006-01-02"
const DateTimeFormat = "2006-01-02T15:04:05"
const DateTimeFormatWithTimezoneRegex = ".+([+-]\\d{2}:\\d{2}|Z)$"

var dateTimeFormatWithTimezoneRegex = regexp.MustCompile(DateTimeFormatWithTimezoneRegex)

// ParseDate reads a civil date from either a plain date or a date time value, in location.
// Returns nil when value is empty or cannot be parsed.
func ParseDate(value string, location *time.Location) *time.Time {
	value = strings.TrimSpace(value)
	if len(value) < len(DateFormat) {
		return nil
	}

	date, err := time.ParseInLocation(DateFormat, value[:len(DateFormat)], location)
	if err != nil {
		return nil
	}

	return &date
}

// ParseDateTime reads a publication timestamp. Values without a zone are taken as UTC.
func ParseDateTime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	if dateTimeFormatWithTimezoneRegex.MatchString(value) {
		if parsed, err := time.Parse(time.RFC3339Nano, value); err == nil {
			return parsed, true
		}
	}

	for _, layout := range []string{DateTimeFormat, "2006-01-02T15:04:05.999999999", DateFormat} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}

	return time.Time{}, false
}

func parseRevision(value string) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	revision, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}

	return revision, true
}
