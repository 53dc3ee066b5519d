package model

import (
	"time"
)

// FormatDue renders a deadline relative to now
func FormatDue(t, now time.Time) string {
	if sameDay(t, now) {
		return "today " + t.Format("15:04")
	}

	tomorrow := now.AddDate(0, 0, 1)
	if sameDay(t, tomorrow) {
		return "tomorrow " + t.Format("15:04")
	}

	yesterday := now.AddDate(0, 0, -1)
	if sameDay(t, yesterday) {
		return "yesterday " + t.Format("15:04")
	}

	if t.Year() == now.Year() {
		return t.Format("Mon, Jan 2 15:04")
	}

	return t.Format("Jan 2, 2006 15:04")
}

// DayBounds returns the half-open [start, end) range of t's local day
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
