package utils

import (
	"time"
	_ "time/tzdata"
)

// FromUTCToTimezone converts t to the named zone, falling back to UTC when
// the zone is unknown.
func FromUTCToTimezone(utcTime time.Time, timezone string) time.Time {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return utcTime.UTC()
	}
	return utcTime.In(loc)
}

// ValidTimezone reports whether name resolves to a location.
func ValidTimezone(name string) bool {
	if name == "" {
		return false
	}
	_, err := time.LoadLocation(name)
	return err == nil
}
