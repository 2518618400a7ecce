package utils

import (
	"math"
	"time"
)

// DaysUntil returns whole calendar days from now until t, never negative.
func DaysUntil(t time.Time) int {
	return DaysBetween(time.Now(), t)
}

// DaysBetween returns whole calendar days from `from` until `to`, never
// negative. An expiration later today counts as 0 DTE.
func DaysBetween(from, to time.Time) int {
	days := int(math.Ceil(to.Sub(from).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

// PrettyDate formats a timestamp for human-facing notifications.
func PrettyDate(t time.Time) string {
	return t.Format("Mon, 02 Jan 2006 15:04")
}
