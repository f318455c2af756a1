package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseTimeToken converts a 12-hour slot token such as "9:00 AM" or
// "12:30 PM" into a 24-hour hour and minute. "12:xx AM" is midnight.
func ParseTimeToken(token string) (hour, minute int, err error) {
	parts := strings.Fields(token)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeToken, token)
	}
	clock, modifier := parts[0], strings.ToUpper(parts[1])

	hm := strings.Split(clock, ":")
	if len(hm) != 2 || len(hm[1]) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeToken, token)
	}
	hour, err = strconv.Atoi(hm[0])
	if err != nil || hour < 1 || hour > 12 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeToken, token)
	}
	minute, err = strconv.Atoi(hm[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeToken, token)
	}

	switch modifier {
	case "PM":
		if hour < 12 {
			hour += 12
		}
	case "AM":
		if hour == 12 {
			hour = 0
		}
	default:
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeToken, token)
	}
	return hour, minute, nil
}

// CombineDateTime places the time of day from token on the calendar day that
// date falls on in loc, discarding any clock already on date.
func CombineDateTime(date time.Time, token string, loc *time.Location) (time.Time, error) {
	if date.IsZero() {
		return time.Time{}, fmt.Errorf("booking: date is required")
	}
	hour, minute, err := ParseTimeToken(token)
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.Local
	}
	y, m, d := date.In(loc).Date()
	return time.Date(y, m, d, hour, minute, 0, 0, loc), nil
}

var zonelessLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ParseDateTime parses an ISO-8601 timestamp. Timestamps without a zone are
// read in loc.
func ParseDateTime(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range zonelessLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateTime, raw)
}
