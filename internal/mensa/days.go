package mensa

import "time"

// Menus are published at most this many days ahead.
const maxDaysAhead = 7

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func isWeekday(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// IsOpen reports whether the canteen serves on day as seen from now: a weekday
// that is neither in the past nor more than a week ahead.
func IsOpen(day, now time.Time) bool {
	d, today := midnight(day.In(now.Location())), midnight(now)
	if d.Before(today) || d.After(today.AddDate(0, 0, maxDaysAhead)) {
		return false
	}
	return isWeekday(d)
}

// NextOpenDay returns the first weekday after day.
func NextOpenDay(day time.Time) time.Time {
	d := midnight(day).AddDate(0, 0, 1)
	for !isWeekday(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// LastOpenDay returns the last weekday before day.
func LastOpenDay(day time.Time) time.Time {
	d := midnight(day).AddDate(0, 0, -1)
	for !isWeekday(d) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// OpenDays lists the days with a published menu, starting today.
func OpenDays(now time.Time) []time.Time {
	var days []time.Time
	today := midnight(now)
	for i := 0; i <= maxDaysAhead; i++ {
		d := today.AddDate(0, 0, i)
		if isWeekday(d) {
			days = append(days, d)
		}
	}
	return days
}
