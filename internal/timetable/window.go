package timetable

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultDays is the window used when no argument is given.
	DefaultDays = 7
	// MaxDays is the widest window that can be requested.
	MaxDays = 30
)

var (
	// ErrInvalidArgument is returned for arguments other than today, tomorrow or a number.
	ErrInvalidArgument = errors.New("timetable: invalid argument")
	// ErrDaysOutOfRange is returned for numbers outside 1..MaxDays.
	ErrDaysOutOfRange = errors.New("timetable: days out of range")
)

// ParseDays converts a command argument into a window size.
func ParseDays(arg string) (int, error) {
	switch arg = strings.ToLower(strings.TrimSpace(arg)); arg {
	case "":
		return DefaultDays, nil
	case "today", "heute":
		return 0, nil
	case "tomorrow", "morgen":
		return 1, nil
	}

	days, err := strconv.Atoi(arg)
	if err != nil {
		return 0, ErrInvalidArgument
	}
	if days < 1 || days > MaxDays {
		return 0, ErrDaysOutOfRange
	}
	return days, nil
}

// Window returns the half-open interval [start, end) covered by days:
// 0 is today, 1 is tomorrow and larger values span today and the following
// days.
func Window(days int, now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	switch days {
	case 0:
		return today, today.AddDate(0, 0, 1)
	case 1:
		tomorrow := today.AddDate(0, 0, 1)
		return tomorrow, tomorrow.AddDate(0, 0, 1)
	default:
		return today, today.AddDate(0, 0, days)
	}
}

// Filter returns the entries starting within [start, end), sorted by start.
func Filter(entries []Entry, start, end time.Time) []Entry {
	var out []Entry
	for _, e := range entries {
		t := time.Unix(e.Start, 0)
		if !t.Before(start) && t.Before(end) {
			out = append(out, e)
		}
	}
	sortByStart(out)
	return out
}
